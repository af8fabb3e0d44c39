package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/domain/inventory"
	"github.com/jhoicas/autoparts-api/internal/domain/repository"
)

// Acciones de catálogo publicadas en tiempo real.
const (
	PartCreated = "created"
	PartUpdated = "updated"
	PartDeleted = "deleted"
)

// PartEventPublisher recibe los cambios de catálogo ya persistidos.
type PartEventPublisher interface {
	OnPartChanged(action string, part dto.PartResponse)
}

// PartUseCase casos de uso CRUD para repuestos. La cantidad solo cambia vía el motor de stock.
type PartUseCase struct {
	repo         repository.PartRepository
	categoryRepo repository.CategoryRepository
	publisher    PartEventPublisher
}

// NewPartUseCase construye el caso de uso. publisher puede ser nil.
func NewPartUseCase(repo repository.PartRepository, categoryRepo repository.CategoryRepository, publisher PartEventPublisher) *PartUseCase {
	return &PartUseCase{repo: repo, categoryRepo: categoryRepo, publisher: publisher}
}

// Create crea un repuesto. El número de parte se normaliza a mayúsculas y debe ser único.
func (uc *PartUseCase) Create(ctx context.Context, actorID string, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	partNumber := entity.NormalizePartNumber(in.PartNumber)
	name := strings.TrimSpace(in.Name)
	if partNumber == "" || len(name) < 3 || len(name) > 200 || strings.TrimSpace(in.Brand) == "" || len(in.Description) > 2000 {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := validatePrices(in.CostPrice, in.SellingPrice, in.Discount, in.TaxPercentage); err != nil {
		return nil, err
	}
	if err := uc.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByPartNumber(ctx, partNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	minStock := entity.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		minStock = *in.MinStockLevel
	}
	reorder := entity.DefaultReorderQuantity
	if in.ReorderQuantity != nil {
		reorder = *in.ReorderQuantity
	}
	if minStock < 0 || reorder < 0 {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	part := &entity.Part{
		ID:              uuid.New().String(),
		PartNumber:      partNumber,
		Name:            name,
		Brand:           strings.TrimSpace(in.Brand),
		CategoryID:      in.CategoryID,
		Description:     in.Description,
		CostPrice:       in.CostPrice,
		SellingPrice:    in.SellingPrice,
		Discount:        in.Discount,
		TaxPercentage:   in.TaxPercentage,
		Quantity:        in.Quantity,
		MinStockLevel:   minStock,
		ReorderQuantity: reorder,
		Tags:            in.Tags,
		SKU:             in.SKU,
		Barcode:         in.Barcode,
		IsActive:        true,
		IsFeatured:      in.IsFeatured,
		Version:         1,
		CreatedBy:       actorID,
		UpdatedBy:       actorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, err
	}
	out := ToPartResponse(part)
	uc.publish(PartCreated, out)
	return out, nil
}

// GetByID obtiene un repuesto activo y suma una vista. Devuelve nil si no existe.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil || !part.IsActive {
		return nil, nil
	}
	if err := uc.repo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	part.Views++
	return ToPartResponse(part), nil
}

// Update actualiza datos de catálogo. No permite modificar número de parte ni cantidad.
func (uc *PartUseCase) Update(ctx context.Context, id, actorID string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if part == nil || !part.IsActive {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len(name) < 3 || len(name) > 200 {
			return nil, domain.ErrInvalidInput
		}
		part.Name = name
	}
	if in.Brand != nil {
		part.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.CategoryID != nil && *in.CategoryID != part.CategoryID {
		if err := uc.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		part.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		if len(*in.Description) > 2000 {
			return nil, domain.ErrInvalidInput
		}
		part.Description = *in.Description
	}
	if in.CostPrice != nil {
		part.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		part.SellingPrice = *in.SellingPrice
	}
	if in.Discount != nil {
		part.Discount = *in.Discount
	}
	if in.TaxPercentage != nil {
		part.TaxPercentage = *in.TaxPercentage
	}
	if err := validatePrices(part.CostPrice, part.SellingPrice, part.Discount, part.TaxPercentage); err != nil {
		return nil, err
	}
	if in.MinStockLevel != nil {
		if *in.MinStockLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		part.MinStockLevel = *in.MinStockLevel
	}
	if in.ReorderQuantity != nil {
		if *in.ReorderQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		part.ReorderQuantity = *in.ReorderQuantity
	}
	if in.Tags != nil {
		part.Tags = in.Tags
	}
	if in.SKU != nil {
		part.SKU = *in.SKU
	}
	if in.Barcode != nil {
		part.Barcode = *in.Barcode
	}
	if in.IsFeatured != nil {
		part.IsFeatured = *in.IsFeatured
	}
	part.UpdatedBy = actorID
	part.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, part); err != nil {
		return nil, err
	}
	out := ToPartResponse(part)
	uc.publish(PartUpdated, out)
	return out, nil
}

// Delete baja lógica (isActive=false). Devuelve domain.ErrPartNotFound si no existe.
func (uc *PartUseCase) Delete(ctx context.Context, id, actorID string) error {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if part == nil || !part.IsActive {
		return domain.ErrPartNotFound
	}
	if err := uc.repo.SoftDelete(ctx, id, actorID); err != nil {
		return err
	}
	part.IsActive = false
	part.UpdatedBy = actorID
	uc.publish(PartDeleted, ToPartResponse(part))
	return nil
}

// List lista repuestos activos con filtros y paginación.
func (uc *PartUseCase) List(ctx context.Context, q dto.PartListQuery) (*dto.PartListResponse, error) {
	q.DefaultPage()
	filter := repository.PartFilter{
		CategoryID: q.Category,
		Brand:      strings.TrimSpace(q.Brand),
		Search:     strings.TrimSpace(q.Search),
		SortBy:     q.SortBy,
		SortAsc:    strings.EqualFold(q.SortOrder, "asc"),
		Limit:      q.Limit,
		Offset:     q.Offset(),
	}
	if q.MinPrice != "" {
		v, err := decimal.NewFromString(q.MinPrice)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.MinPrice = &v
	}
	if q.MaxPrice != "" {
		v, err := decimal.NewFromString(q.MaxPrice)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.MaxPrice = &v
	}
	if q.StockStatus != "" {
		status := inventory.StockStatus(q.StockStatus)
		if !status.Valid() {
			return nil, domain.ErrInvalidInput
		}
		filter.StockStatus = status
	}
	switch filter.SortBy {
	case repository.SortCreatedAt, repository.SortName, repository.SortSellingPrice,
		repository.SortQuantity, repository.SortSalesCount, repository.SortViews:
	case "":
		filter.SortBy = repository.SortCreatedAt
	default:
		return nil, domain.ErrInvalidInput
	}

	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &dto.PartListResponse{
		Items: toPartResponses(list),
		Page:  dto.NewPageResponse(q.PageRequest, total),
	}, nil
}

// Search búsqueda libre ordenada por vistas y ventas.
func (uc *PartUseCase) Search(ctx context.Context, query string, limit int) ([]dto.PartResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	list, err := uc.repo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toPartResponses(list), nil
}

func (uc *PartUseCase) ensureCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return domain.ErrCategoryNotFound
	}
	c, err := uc.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (uc *PartUseCase) publish(action string, part *dto.PartResponse) {
	if uc.publisher == nil || part == nil {
		return
	}
	uc.publisher.OnPartChanged(action, *part)
}

func validatePrices(cost, selling, discount, tax decimal.Decimal) error {
	if cost.IsNegative() || selling.IsNegative() || tax.IsNegative() {
		return domain.ErrInvalidInput
	}
	if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
		return domain.ErrInvalidInput
	}
	return nil
}

// ToPartResponse convierte la entidad al DTO, recalculando los campos derivados.
func ToPartResponse(p *entity.Part) *dto.PartResponse {
	if p == nil {
		return nil
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.PartResponse{
		ID:              p.ID,
		PartNumber:      p.PartNumber,
		Name:            p.Name,
		Brand:           p.Brand,
		CategoryID:      p.CategoryID,
		Description:     p.Description,
		CostPrice:       p.CostPrice,
		SellingPrice:    p.SellingPrice,
		Discount:        p.Discount,
		TaxPercentage:   p.TaxPercentage,
		FinalPrice:      p.FinalPrice(),
		ProfitMargin:    p.ProfitMargin(),
		Quantity:        p.Quantity,
		MinStockLevel:   p.MinStockLevel,
		ReorderQuantity: p.ReorderQuantity,
		StockStatus:     string(p.StockStatus()),
		Tags:            tags,
		SKU:             p.SKU,
		Barcode:         p.Barcode,
		IsActive:        p.IsActive,
		IsFeatured:      p.IsFeatured,
		Views:           p.Views,
		SalesCount:      p.SalesCount,
		CreatedBy:       p.CreatedBy,
		UpdatedBy:       p.UpdatedBy,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toPartResponses(list []*entity.Part) []dto.PartResponse {
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToPartResponse(p))
	}
	return items
}
