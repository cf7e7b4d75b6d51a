package service

import (
	"strings"

	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"
)

// PartnerService 合作伙伴服务
type PartnerService struct {
	partnerRepo repository.PartnerRepository
	optionRepo  repository.RedemptionOptionRepository
}

// PartnerInput 合作伙伴创建/更新输入
type PartnerInput struct {
	Name         string
	ContactEmail string
	Website      string
	IsActive     bool
}

// NewPartnerService 创建合作伙伴服务
func NewPartnerService(
	partnerRepo repository.PartnerRepository,
	optionRepo repository.RedemptionOptionRepository,
) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		optionRepo:  optionRepo,
	}
}

// CreatePartner 创建合作伙伴
func (s *PartnerService) CreatePartner(input PartnerInput) (*models.Partner, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrPartnerNotFound
	}
	partner := &models.Partner{
		Name:         input.Name,
		ContactEmail: strings.TrimSpace(input.ContactEmail),
		Website:      strings.TrimSpace(input.Website),
		IsActive:     input.IsActive,
	}
	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	logger.Infow("partner_created", "partner_id", partner.ID, "name", partner.Name)
	return partner, nil
}

// UpdatePartner 更新合作伙伴
func (s *PartnerService) UpdatePartner(id uint, input PartnerInput) (*models.Partner, error) {
	partner, err := s.GetPartner(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		partner.Name = name
	}
	partner.ContactEmail = strings.TrimSpace(input.ContactEmail)
	partner.Website = strings.TrimSpace(input.Website)
	partner.IsActive = input.IsActive
	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// DeletePartner 删除合作伙伴；仍挂有兑换商品时拒绝
func (s *PartnerService) DeletePartner(id uint) error {
	if _, err := s.GetPartner(id); err != nil {
		return err
	}
	options, _, err := s.optionRepo.List(repository.RedemptionOptionListFilter{PartnerID: id, Page: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if len(options) > 0 {
		return ErrPartnerHasOptions
	}
	if err := s.partnerRepo.Delete(id); err != nil {
		return err
	}
	logger.Infow("partner_deleted", "partner_id", id)
	return nil
}

// GetPartner 获取合作伙伴
func (s *PartnerService) GetPartner(id uint) (*models.Partner, error) {
	partner, err := s.partnerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrPartnerNotFound
	}
	return partner, nil
}

// ListPartners 分页查询合作伙伴
func (s *PartnerService) ListPartners(filter repository.PartnerListFilter) ([]models.Partner, int64, error) {
	return s.partnerRepo.List(filter)
}
