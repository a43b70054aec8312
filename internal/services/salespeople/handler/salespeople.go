package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"ventaspro/internal/cache"
	"ventaspro/internal/database/models"
	"ventaspro/internal/utils"
)

const maxPhoneLength = 20

type SalespersonRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	// IsActive defaults to true on create and is left unchanged on update when nil.
	IsActive *bool
}

type SalespersonDetail struct {
	models.Salesperson
	SaleCount       int64
	TotalCommission decimal.Decimal
}

type SalespersonHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	logger *zap.Logger
}

func NewSalespersonHandler(db *gorm.DB, c *cache.Cache, logger *zap.Logger) *SalespersonHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalespersonHandler{
		db:     db,
		cache:  c,
		logger: logger,
	}
}

func (h *SalespersonHandler) validate(req *SalespersonRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FirstName == "" || req.LastName == "" {
		return status.Errorf(codes.InvalidArgument, "First name and last name are required")
	}
	if len(req.FirstName) > 100 || len(req.LastName) > 100 {
		return status.Errorf(codes.InvalidArgument, "First name and last name must be at most 100 characters")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return status.Errorf(codes.InvalidArgument, "A valid email is required")
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if len(phone) > maxPhoneLength {
			return status.Errorf(codes.InvalidArgument, "Phone must be at most %d characters", maxPhoneLength)
		}
		req.Phone = utils.StrPtr(phone)
	}
	return nil
}

func (h *SalespersonHandler) ensureEmailAvailable(tx *gorm.DB, email string, exceptID int64) error {
	var count int64
	query := tx.Model(&models.Salesperson{}).Where("email = ?", email)
	if exceptID > 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&count).Error; err != nil {
		return status.Errorf(codes.Internal, "Failed to check email: %v", err)
	}
	if count > 0 {
		return status.Errorf(codes.AlreadyExists, "A salesperson with email %s already exists", email)
	}
	return nil
}

func translateWriteError(err error, email string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return status.Errorf(codes.AlreadyExists, "A salesperson with email %s already exists", email)
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Errorf(codes.Internal, "Failed to save salesperson: %v", err)
}

func (h *SalespersonHandler) CreateSalesperson(ctx context.Context, req SalespersonRequest) (*models.Salesperson, error) {
	if err := h.validate(&req); err != nil {
		return nil, err
	}

	salesperson := models.Salesperson{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		JoinDate:  utils.Today(),
		IsActive:  true,
	}
	if req.IsActive != nil {
		salesperson.IsActive = *req.IsActive
	}

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := h.ensureEmailAvailable(tx, req.Email, 0); err != nil {
			return err
		}
		return tx.Create(&salesperson).Error
	})
	if err != nil {
		return nil, translateWriteError(err, req.Email)
	}

	h.logger.Info("salesperson created", zap.Int64("salesperson_id", salesperson.ID), zap.String("email", salesperson.Email))
	return &salesperson, nil
}

func (h *SalespersonHandler) findSalesperson(tx *gorm.DB, id int64) (*models.Salesperson, error) {
	if id <= 0 {
		return nil, status.Errorf(codes.InvalidArgument, "Salesperson ID is required")
	}
	var salesperson models.Salesperson
	if err := tx.First(&salesperson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, status.Errorf(codes.NotFound, "Salesperson with ID %d not found", id)
		}
		return nil, status.Errorf(codes.Internal, "Failed to get salesperson: %v", err)
	}
	return &salesperson, nil
}

// Exists returns a NotFound status error when no salesperson has the given id.
func (h *SalespersonHandler) Exists(ctx context.Context, id int64) error {
	_, err := h.findSalesperson(h.db.WithContext(ctx), id)
	return err
}

func (h *SalespersonHandler) GetSalesperson(ctx context.Context, id int64) (*SalespersonDetail, error) {
	db := h.db.WithContext(ctx)

	salesperson, err := h.findSalesperson(db, id)
	if err != nil {
		return nil, err
	}

	var commissions []decimal.Decimal
	if err := db.Model(&models.Sale{}).Where("salesperson_id = ?", id).Pluck("commission", &commissions).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to get salesperson totals: %v", err)
	}

	total := decimal.Zero
	for _, c := range commissions {
		total = total.Add(c)
	}

	return &SalespersonDetail{
		Salesperson:     *salesperson,
		SaleCount:       int64(len(commissions)),
		TotalCommission: total,
	}, nil
}

func (h *SalespersonHandler) ListSalespeople(ctx context.Context, activeOnly bool) ([]models.Salesperson, error) {
	query := h.db.WithContext(ctx).Order("last_name asc, first_name asc, id asc")
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var salespeople []models.Salesperson
	if err := query.Find(&salespeople).Error; err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to list salespeople: %v", err)
	}
	return salespeople, nil
}

func (h *SalespersonHandler) UpdateSalesperson(ctx context.Context, id int64, req SalespersonRequest) (*models.Salesperson, error) {
	if err := h.validate(&req); err != nil {
		return nil, err
	}

	var salesperson *models.Salesperson
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		salesperson, err = h.findSalesperson(tx, id)
		if err != nil {
			return err
		}
		if err := h.ensureEmailAvailable(tx, req.Email, id); err != nil {
			return err
		}

		salesperson.FirstName = req.FirstName
		salesperson.LastName = req.LastName
		salesperson.Email = req.Email
		salesperson.Phone = req.Phone
		if req.IsActive != nil {
			salesperson.IsActive = *req.IsActive
		}
		return tx.Omit("Sales", "Summaries").Save(salesperson).Error
	})
	if err != nil {
		return nil, translateWriteError(err, req.Email)
	}

	h.logger.Info("salesperson updated", zap.Int64("salesperson_id", id))
	return salesperson, nil
}

// DeleteSalesperson removes the salesperson together with their sales and summaries.
func (h *SalespersonHandler) DeleteSalesperson(ctx context.Context, id int64) error {
	var summaryIDs []int64

	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := h.findSalesperson(tx, id); err != nil {
			return err
		}
		if err := tx.Model(&models.CommissionSummary{}).Where("salesperson_id = ?", id).Pluck("id", &summaryIDs).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to collect summaries: %v", err)
		}
		if err := tx.Where("salesperson_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to delete sales: %v", err)
		}
		if err := tx.Where("salesperson_id = ?", id).Delete(&models.CommissionSummary{}).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to delete summaries: %v", err)
		}
		if err := tx.Delete(&models.Salesperson{}, id).Error; err != nil {
			return status.Errorf(codes.Internal, "Failed to delete salesperson: %v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.cache.Delete(ctx, cache.SummaryKeys(summaryIDs)...)
	h.logger.Info("salesperson deleted", zap.Int64("salesperson_id", id), zap.Int("summaries_removed", len(summaryIDs)))
	return nil
}
