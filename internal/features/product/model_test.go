package product_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hqtest/courses-server/internal/features/lesson"
	"github.com/hqtest/courses-server/internal/features/product"
	"github.com/hqtest/courses-server/internal/features/productaccess"
	"github.com/hqtest/courses-server/internal/testutil"
	"github.com/hqtest/courses-server/pkg/pagination"
)

func TestCreateProduct(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateAdmin(t, db, "owner")

	p, err := product.Create(db, product.CreateInput{OwnerID: owner.ID, Name: "  Go Basics "})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", p.Name)
	require.NotNil(t, p.Owner)
	assert.Equal(t, "owner", p.Owner.Username)

	_, err = product.Create(db, product.CreateInput{OwnerID: uuid.New(), Name: "Orphan"})
	assert.ErrorIs(t, err, product.ErrOwnerNotFound)

	_, err = product.Create(db, product.CreateInput{OwnerID: owner.ID, Name: "   "})
	assert.ErrorIs(t, err, product.ErrNameRequired)

	_, err = product.Create(db, product.CreateInput{OwnerID: owner.ID, Name: strings.Repeat("x", product.MaxNameLength+1)})
	assert.ErrorIs(t, err, product.ErrNameTooLong)
}

func TestUpdateAndListProducts(t *testing.T) {
	db := testutil.NewDB(t)
	first := testutil.CreateAdmin(t, db, "first")
	second := testutil.CreateAdmin(t, db, "second")
	p := testutil.CreateProduct(t, db, first.ID, "Draft")
	testutil.CreateProduct(t, db, first.ID, "Other")

	name := "Final"
	updated, err := product.Update(db, p.ID, product.UpdateInput{Name: &name, OwnerID: &second.ID})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Name)
	assert.Equal(t, second.ID, updated.OwnerID)

	missing := uuid.New()
	_, err = product.Update(db, p.ID, product.UpdateInput{OwnerID: &missing})
	assert.ErrorIs(t, err, product.ErrOwnerNotFound)

	_, err = product.Update(db, uuid.New(), product.UpdateInput{Name: &name})
	assert.ErrorIs(t, err, product.ErrProductNotFound)

	products, total, err := product.List(db, product.ListFilters{OwnerID: &first.ID}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Other", products[0].Name)

	products, total, err = product.List(db, product.ListFilters{Keyword: "FIN"}, pagination.New(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, p.ID, products[0].ID)
}

func TestDeleteProductKeepsLessons(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateAdmin(t, db, "owner")
	student := testutil.CreateStudent(t, db, "student")
	doomed := testutil.CreateProduct(t, db, owner.ID, "Doomed")
	kept := testutil.CreateProduct(t, db, owner.ID, "Kept")
	shared := testutil.CreateLesson(t, db, "Shared", 60, doomed.ID, kept.ID)
	testutil.Grant(t, db, student.ID, doomed.ID)

	require.NoError(t, product.Delete(db, doomed.ID))

	has, err := productaccess.HasAccess(db, student.ID, doomed.ID)
	require.NoError(t, err)
	assert.False(t, has)

	l, err := lesson.Get(db, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept.ID}, l.ProductIDs)

	assert.ErrorIs(t, product.Delete(db, doomed.ID), product.ErrProductNotFound)
}
