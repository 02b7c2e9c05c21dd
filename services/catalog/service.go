package catalog

import (
	"context"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	products    repository.Repository[Product]
	services    repository.Repository[ServiceOffering]
	classes     repository.Repository[Class]
	retreats    repository.Repository[Retreat]
	fundraisers repository.Repository[Fundraiser]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:          p.DB,
		products:    repository.ProvideStore[Product](p.DB),
		services:    repository.ProvideStore[ServiceOffering](p.DB),
		classes:     repository.ProvideStore[Class](p.DB),
		retreats:    repository.ProvideStore[Retreat](p.DB),
		fundraisers: repository.ProvideStore[Fundraiser](p.DB),
	}
}

// ListServices returns visible offerings; includeHidden widens the
// list for admin views.
func (s *Service) ListServices(ctx context.Context, includeHidden bool) ([]ServiceOffering, error) {
	var rows []ServiceOffering
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list services", err)
	}
	return rows, nil
}

func (s *Service) GetServiceOffering(ctx context.Context, id string) (*ServiceOffering, error) {
	row, err := s.services.FindOne(ctx, &ServiceOffering{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load service", err)
	}
	if row == nil {
		return nil, errutil.NotFound("service not found", nil)
	}
	return row, nil
}

func (s *Service) CreateServiceOffering(ctx context.Context, row *ServiceOffering) (*ServiceOffering, error) {
	if row.Name == "" {
		return nil, errutil.ValidationFailed("name is required", nil)
	}
	row.ID = uuid.NewString()
	if err := s.services.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create service", err)
	}
	return row, nil
}

func (s *Service) UpdateServiceOffering(ctx context.Context, id string, patch *ServiceOffering) (*ServiceOffering, error) {
	if _, err := s.GetServiceOffering(ctx, id); err != nil {
		return nil, err
	}
	patch.ID = ""
	if err := s.db.WithContext(ctx).Model(&ServiceOffering{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, errutil.Internal("failed to update service", err)
	}
	return s.GetServiceOffering(ctx, id)
}

func (s *Service) DeleteServiceOffering(ctx context.Context, id string) error {
	if _, err := s.GetServiceOffering(ctx, id); err != nil {
		return err
	}
	if err := s.services.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete service", err)
	}
	return nil
}

func (s *Service) ListClasses(ctx context.Context, includeHidden bool) ([]Class, error) {
	var rows []Class
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list classes", err)
	}
	return rows, nil
}

func (s *Service) GetClass(ctx context.Context, id string) (*Class, error) {
	row, err := s.classes.FindOne(ctx, &Class{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load class", err)
	}
	if row == nil {
		return nil, errutil.NotFound("class not found", nil)
	}
	return row, nil
}

func (s *Service) CreateClass(ctx context.Context, row *Class) (*Class, error) {
	if row.Name == "" {
		return nil, errutil.ValidationFailed("name is required", nil)
	}
	row.ID = uuid.NewString()
	if err := s.classes.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create class", err)
	}
	return row, nil
}

func (s *Service) UpdateClass(ctx context.Context, id string, patch *Class) (*Class, error) {
	if _, err := s.GetClass(ctx, id); err != nil {
		return nil, err
	}
	patch.ID = ""
	if err := s.db.WithContext(ctx).Model(&Class{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, errutil.Internal("failed to update class", err)
	}
	return s.GetClass(ctx, id)
}

func (s *Service) DeleteClass(ctx context.Context, id string) error {
	if _, err := s.GetClass(ctx, id); err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete class", err)
	}
	return nil
}

func (s *Service) ListRetreats(ctx context.Context, includeHidden bool) ([]Retreat, error) {
	var rows []Retreat
	q := s.db.WithContext(ctx).Order("start_date ASC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list retreats", err)
	}
	return rows, nil
}

func (s *Service) GetRetreat(ctx context.Context, id string) (*Retreat, error) {
	row, err := s.retreats.FindOne(ctx, &Retreat{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load retreat", err)
	}
	if row == nil {
		return nil, errutil.NotFound("retreat not found", nil)
	}
	return row, nil
}

func (s *Service) CreateRetreat(ctx context.Context, row *Retreat) (*Retreat, error) {
	if row.Name == "" {
		return nil, errutil.ValidationFailed("name is required", nil)
	}
	row.ID = uuid.NewString()
	if err := s.retreats.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create retreat", err)
	}
	return row, nil
}

func (s *Service) UpdateRetreat(ctx context.Context, id string, patch *Retreat) (*Retreat, error) {
	if _, err := s.GetRetreat(ctx, id); err != nil {
		return nil, err
	}
	patch.ID = ""
	if err := s.db.WithContext(ctx).Model(&Retreat{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, errutil.Internal("failed to update retreat", err)
	}
	return s.GetRetreat(ctx, id)
}

func (s *Service) DeleteRetreat(ctx context.Context, id string) error {
	if _, err := s.GetRetreat(ctx, id); err != nil {
		return err
	}
	if err := s.retreats.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete retreat", err)
	}
	return nil
}

func (s *Service) ListFundraisers(ctx context.Context) ([]Fundraiser, error) {
	var rows []Fundraiser
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list fundraisers", err)
	}
	return rows, nil
}

func (s *Service) GetFundraiser(ctx context.Context, id string) (*Fundraiser, error) {
	row, err := s.fundraisers.FindOne(ctx, &Fundraiser{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load fundraiser", err)
	}
	if row == nil {
		return nil, errutil.NotFound("fundraiser not found", nil)
	}
	return row, nil
}

func (s *Service) CreateFundraiser(ctx context.Context, row *Fundraiser) (*Fundraiser, error) {
	if row.Title == "" {
		return nil, errutil.ValidationFailed("title is required", nil)
	}
	row.ID = uuid.NewString()
	if err := s.fundraisers.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to create fundraiser", err)
	}
	return row, nil
}

func (s *Service) UpdateFundraiser(ctx context.Context, id string, patch *Fundraiser) (*Fundraiser, error) {
	if _, err := s.GetFundraiser(ctx, id); err != nil {
		return nil, err
	}
	patch.ID = ""
	if err := s.db.WithContext(ctx).Model(&Fundraiser{}).Where("id = ?", id).Updates(patch).Error; err != nil {
		return nil, errutil.Internal("failed to update fundraiser", err)
	}
	return s.GetFundraiser(ctx, id)
}

func (s *Service) DeleteFundraiser(ctx context.Context, id string) error {
	if _, err := s.GetFundraiser(ctx, id); err != nil {
		return err
	}
	if err := s.fundraisers.Delete(ctx, id); err != nil {
		return errutil.Internal("failed to delete fundraiser", err)
	}
	return nil
}
