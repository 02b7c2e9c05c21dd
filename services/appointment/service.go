package appointment

import (
	"context"
	"strings"
	"time"

	"mothernatural-backend/pkg/errutil"
	"mothernatural-backend/pkg/repository"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	bookings    repository.Repository[Appointment]
	emergencies repository.Repository[EmergencyRequest]
}

type ServiceParams struct {
	fx.In
	DB *gorm.DB
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:          p.DB,
		bookings:    repository.ProvideStore[Appointment](p.DB),
		emergencies: repository.ProvideStore[EmergencyRequest](p.DB),
	}
}

type BookRequest struct {
	CustomerEmail string `json:"customerEmail" binding:"required,email"`
	CustomerName  string `json:"customerName" binding:"required"`
	ServiceID     string `json:"serviceId"`
	ServiceName   string `json:"serviceName" binding:"required"`
	Date          string `json:"date" binding:"required"`
	TimeSlot      string `json:"timeSlot" binding:"required"`
	Notes         string `json:"notes"`
}

// Book reserves a slot; the same date and time cannot be booked twice
// for the same service.
func (s *Service) Book(ctx context.Context, req *BookRequest) (*Appointment, error) {
	taken, err := s.bookings.FindOne(ctx, &Appointment{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Status:    StatusConfirmed,
	})
	if err != nil {
		return nil, errutil.Internal("failed to check availability", err)
	}
	if taken != nil {
		return nil, errutil.Conflict("that time slot is already booked", nil)
	}

	row := &Appointment{
		ID:            uuid.NewString(),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		Status:        StatusConfirmed,
		Notes:         req.Notes,
	}
	if err := s.bookings.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to book appointment", err)
	}
	return row, nil
}

// List returns appointments, optionally filtered by customer email.
func (s *Service) List(ctx context.Context, email string) ([]Appointment, error) {
	var rows []Appointment
	q := s.db.WithContext(ctx).Order("date ASC, time_slot ASC")
	if email != "" {
		q = q.Where("customer_email = ?", strings.ToLower(strings.TrimSpace(email)))
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, errutil.Internal("failed to list appointments", err)
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	row, err := s.bookings.FindOne(ctx, &Appointment{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load appointment", err)
	}
	if row == nil {
		return nil, errutil.NotFound("appointment not found", nil)
	}
	return row, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

func (s *Service) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*Appointment, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	row.Status = req.Status
	if err := s.bookings.Update(ctx, id, &Appointment{Status: req.Status}); err != nil {
		return nil, errutil.Internal("failed to update appointment", err)
	}
	return row, nil
}

func (s *Service) Cancel(ctx context.Context, id string) error {
	_, err := s.UpdateStatus(ctx, id, &UpdateStatusRequest{Status: StatusCancelled})
	return err
}

type EmergencyRequestInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" binding:"required"`
	Urgency string `json:"urgency"`
}

func (s *Service) SubmitEmergency(ctx context.Context, req *EmergencyRequestInput) (*EmergencyRequest, error) {
	row := &EmergencyRequest{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   req.Phone,
		Message: req.Message,
		Urgency: req.Urgency,
	}
	if row.Urgency == "" {
		row.Urgency = "normal"
	}

	if err := s.emergencies.Create(ctx, row); err != nil {
		return nil, errutil.Internal("failed to submit emergency request", err)
	}
	return row, nil
}

// ListEmergencies returns open requests first, newest within each
// group.
func (s *Service) ListEmergencies(ctx context.Context) ([]EmergencyRequest, error) {
	var rows []EmergencyRequest
	err := s.db.WithContext(ctx).
		Order("resolved ASC, created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errutil.Internal("failed to list emergency requests", err)
	}
	return rows, nil
}

func (s *Service) ResolveEmergency(ctx context.Context, id string) (*EmergencyRequest, error) {
	row, err := s.emergencies.FindOne(ctx, &EmergencyRequest{ID: id})
	if err != nil {
		return nil, errutil.Internal("failed to load emergency request", err)
	}
	if row == nil {
		return nil, errutil.NotFound("emergency request not found", nil)
	}
	if row.Resolved {
		return row, nil
	}

	now := time.Now()
	row.Resolved = true
	row.ResolvedAt = &now
	if err := s.emergencies.Update(ctx, id, &EmergencyRequest{Resolved: true, ResolvedAt: &now}); err != nil {
		return nil, errutil.Internal("failed to resolve emergency request", err)
	}
	return row, nil
}
