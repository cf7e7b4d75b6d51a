package service

import (
	"strings"

	"github.com/greencycle/internal/logger"
	"github.com/greencycle/internal/models"
	"github.com/greencycle/internal/repository"
)

// FleetService 回收公司与车辆管理服务
type FleetService struct {
	companyRepo repository.CompanyRepository
	vehicleRepo repository.VehicleRepository
}

// CompanyInput 回收公司创建/更新输入
type CompanyInput struct {
	Name         string
	ContactPhone string
	ServiceArea  string
	IsActive     bool
}

// VehicleInput 回收车辆创建/更新输入
type VehicleInput struct {
	CompanyID    uint
	LicensePlate string
	CapacityKg   models.Weight
	IsActive     bool
}

// NewFleetService 创建车队管理服务
func NewFleetService(
	companyRepo repository.CompanyRepository,
	vehicleRepo repository.VehicleRepository,
) *FleetService {
	return &FleetService{
		companyRepo: companyRepo,
		vehicleRepo: vehicleRepo,
	}
}

// CreateCompany 创建回收公司
func (s *FleetService) CreateCompany(input CompanyInput) (*models.Company, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrCompanyNotFound
	}
	company := &models.Company{
		Name:         input.Name,
		ContactPhone: strings.TrimSpace(input.ContactPhone),
		ServiceArea:  strings.TrimSpace(input.ServiceArea),
		IsActive:     input.IsActive,
	}
	if err := s.companyRepo.Create(company); err != nil {
		return nil, err
	}
	logger.Infow("company_created", "company_id", company.ID, "name", company.Name)
	return company, nil
}

// UpdateCompany 更新回收公司
func (s *FleetService) UpdateCompany(id uint, input CompanyInput) (*models.Company, error) {
	company, err := s.GetCompany(id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		company.Name = name
	}
	company.ContactPhone = strings.TrimSpace(input.ContactPhone)
	company.ServiceArea = strings.TrimSpace(input.ServiceArea)
	company.IsActive = input.IsActive
	if err := s.companyRepo.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

// DeleteCompany 软删除回收公司
func (s *FleetService) DeleteCompany(id uint) error {
	if _, err := s.GetCompany(id); err != nil {
		return err
	}
	return s.companyRepo.Delete(id)
}

// GetCompany 获取回收公司
func (s *FleetService) GetCompany(id uint) (*models.Company, error) {
	company, err := s.companyRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, ErrCompanyNotFound
	}
	return company, nil
}

// ListCompanies 分页查询回收公司
func (s *FleetService) ListCompanies(filter repository.CompanyListFilter) ([]models.Company, int64, error) {
	return s.companyRepo.List(filter)
}

// CreateVehicle 创建回收车辆
func (s *FleetService) CreateVehicle(input VehicleInput) (*models.Vehicle, error) {
	input.LicensePlate = strings.TrimSpace(input.LicensePlate)
	if input.LicensePlate == "" {
		return nil, ErrVehicleNotFound
	}
	if _, err := s.GetCompany(input.CompanyID); err != nil {
		return nil, err
	}
	existing, err := s.vehicleRepo.GetByLicensePlate(input.LicensePlate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrLicensePlateUsed
	}
	vehicle := &models.Vehicle{
		CompanyID:    input.CompanyID,
		LicensePlate: input.LicensePlate,
		CapacityKg:   input.CapacityKg,
		IsActive:     input.IsActive,
	}
	if err := s.vehicleRepo.Create(vehicle); err != nil {
		return nil, err
	}
	logger.Infow("vehicle_created", "vehicle_id", vehicle.ID, "license_plate", vehicle.LicensePlate)
	return vehicle, nil
}

// UpdateVehicle 更新回收车辆
func (s *FleetService) UpdateVehicle(id uint, input VehicleInput) (*models.Vehicle, error) {
	vehicle, err := s.GetVehicle(id)
	if err != nil {
		return nil, err
	}
	if plate := strings.TrimSpace(input.LicensePlate); plate != "" && plate != vehicle.LicensePlate {
		existing, err := s.vehicleRepo.GetByLicensePlate(plate)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != vehicle.ID {
			return nil, ErrLicensePlateUsed
		}
		vehicle.LicensePlate = plate
	}
	if input.CompanyID != 0 && input.CompanyID != vehicle.CompanyID {
		if _, err := s.GetCompany(input.CompanyID); err != nil {
			return nil, err
		}
		vehicle.CompanyID = input.CompanyID
	}
	if !input.CapacityKg.Decimal.IsZero() {
		vehicle.CapacityKg = input.CapacityKg
	}
	vehicle.IsActive = input.IsActive
	if err := s.vehicleRepo.Update(vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

// DeleteVehicle 软删除回收车辆
func (s *FleetService) DeleteVehicle(id uint) error {
	if _, err := s.GetVehicle(id); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(id)
}

// GetVehicle 获取回收车辆
func (s *FleetService) GetVehicle(id uint) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrVehicleNotFound
	}
	return vehicle, nil
}

// ListVehicles 分页查询回收车辆
func (s *FleetService) ListVehicles(filter repository.VehicleListFilter) ([]models.Vehicle, int64, error) {
	return s.vehicleRepo.List(filter)
}
