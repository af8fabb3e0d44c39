package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/autoparts-api/internal/application/dto"
	"github.com/jhoicas/autoparts-api/internal/application/usecase"
	"github.com/jhoicas/autoparts-api/internal/domain"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/memory"
)

type partEvent struct {
	action string
	part   dto.PartResponse
}

type fakePartPublisher struct {
	mu     sync.Mutex
	events []partEvent
}

func (p *fakePartPublisher) OnPartChanged(action string, part dto.PartResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, partEvent{action: action, part: part})
}

func setupParts(t *testing.T) (*usecase.PartUseCase, *fakePartPublisher, string) {
	t.Helper()
	store := memory.NewStore()
	cat, err := usecase.NewCategoryUseCase(store.Categories()).Create(context.Background(), dto.CreateCategoryRequest{Name: "Frenos"})
	require.NoError(t, err)
	pub := &fakePartPublisher{}
	return usecase.NewPartUseCase(store.Parts(), store.Categories(), pub), pub, cat.ID
}

func validPart(categoryID string) dto.CreatePartRequest {
	return dto.CreatePartRequest{
		PartNumber:   " br-001 ",
		Name:         "Pastilla delantera",
		Brand:        "Bosch",
		CategoryID:   categoryID,
		CostPrice:    decimal.NewFromInt(30),
		SellingPrice: decimal.NewFromInt(45),
		Discount:     decimal.NewFromInt(10),
		Quantity:     12,
	}
}

func TestPartUseCase_Create(t *testing.T) {
	uc, pub, catID := setupParts(t)

	out, err := uc.Create(context.Background(), "admin-1", validPart(catID))
	require.NoError(t, err)
	assert.Equal(t, "BR-001", out.PartNumber)
	assert.Equal(t, int64(5), out.MinStockLevel, "mínimo por defecto")
	assert.Equal(t, int64(10), out.ReorderQuantity)
	assert.Equal(t, "in_stock", out.StockStatus)
	assert.Equal(t, "40.5", out.FinalPrice.String())
	assert.Equal(t, "50", out.ProfitMargin.String())
	assert.Equal(t, []string{}, out.Tags)
	assert.Equal(t, "admin-1", out.CreatedBy)

	require.Len(t, pub.events, 1)
	assert.Equal(t, usecase.PartCreated, pub.events[0].action)
	assert.Equal(t, out.ID, pub.events[0].part.ID)
}

func TestPartUseCase_CreateValidaciones(t *testing.T) {
	uc, pub, catID := setupParts(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, "admin", validPart(catID))
	require.NoError(t, err)

	dup := validPart(catID)
	dup.PartNumber = "BR-001"
	_, err = uc.Create(ctx, "admin", dup)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	noCat := validPart("no-existe")
	noCat.PartNumber = "X-1"
	_, err = uc.Create(ctx, "admin", noCat)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	shortName := validPart(catID)
	shortName.PartNumber = "X-2"
	shortName.Name = "ab"
	_, err = uc.Create(ctx, "admin", shortName)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	negQty := validPart(catID)
	negQty.PartNumber = "X-3"
	negQty.Quantity = -1
	_, err = uc.Create(ctx, "admin", negQty)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	badDiscount := validPart(catID)
	badDiscount.PartNumber = "X-4"
	badDiscount.Discount = decimal.NewFromInt(101)
	_, err = uc.Create(ctx, "admin", badDiscount)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Len(t, pub.events, 1, "solo la creación válida se publica")
}

func TestPartUseCase_UpdateNoTocaCantidad(t *testing.T) {
	uc, pub, catID := setupParts(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "admin", validPart(catID))
	require.NoError(t, err)

	name := "Pastilla delantera cerámica"
	minStock := int64(20)
	out, err := uc.Update(ctx, created.ID, "admin-2", dto.UpdatePartRequest{Name: &name, MinStockLevel: &minStock})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, int64(12), out.Quantity)
	assert.Equal(t, "low_stock", out.StockStatus, "el estado se recalcula con el nuevo mínimo")
	assert.Equal(t, "admin-2", out.UpdatedBy)

	require.Len(t, pub.events, 2)
	assert.Equal(t, usecase.PartUpdated, pub.events[1].action)

	missing, err := uc.Update(ctx, "no-existe", "admin", dto.UpdatePartRequest{Name: &name})
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPartUseCase_DeleteYGetByID(t *testing.T) {
	uc, pub, catID := setupParts(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, "admin", validPart(catID))
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	require.NoError(t, uc.Delete(ctx, created.ID, "admin"))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID, "admin"), domain.ErrPartNotFound)

	got, err = uc.GetByID(ctx, created.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	require.Len(t, pub.events, 2)
	assert.Equal(t, usecase.PartDeleted, pub.events[1].action)
	assert.False(t, pub.events[1].part.IsActive)
}

func TestPartUseCase_ListYSearch(t *testing.T) {
	uc, _, catID := setupParts(t)
	ctx := context.Background()
	for _, pn := range []string{"A-1", "A-2", "A-3"} {
		in := validPart(catID)
		in.PartNumber = pn
		_, err := uc.Create(ctx, "admin", in)
		require.NoError(t, err)
	}

	res, err := uc.List(ctx, dto.PartListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: 2}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, 3, res.Page.Total)
	assert.Equal(t, 2, res.Page.TotalPages)

	_, err = uc.List(ctx, dto.PartListQuery{SortBy: "color"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(ctx, dto.PartListQuery{StockStatus: "discontinued"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.List(ctx, dto.PartListQuery{MinPrice: "barato"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	found, err := uc.Search(ctx, "a-2", 0)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "A-2", found[0].PartNumber)

	_, err = uc.Search(ctx, "  ", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
