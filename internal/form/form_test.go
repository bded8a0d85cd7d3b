package form

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/kitcatalog/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleState() model.ProductInput {
	return model.ProductInput{
		Name:          "Vitamin D Test",
		BasePrice:     39.99,
		SKU:           "VITD-01",
		StockQuantity: 12,
		SampleType:    []string{"Blood", "Serum"},
		IsActive:      true,
	}
}

func TestProductForm_CreateMode(t *testing.T) {
	f := New(model.ProductInput{}, Options{})

	assert.Equal(t, "Create New Product", f.Title())
	assert.Equal(t, "Create Product", f.SubmitLabel())
	assert.False(t, f.ShowDelete())
	assert.False(t, f.ShowNew())
	assert.ErrorIs(t, f.Delete(context.Background()), ErrNoSelection)
}

func TestProductForm_EditMode(t *testing.T) {
	var deleted string
	f := New(sampleState(), Options{
		SelectedID: strPtr("prod-1"),
		OnDelete: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	})

	assert.Equal(t, "Edit Product", f.Title())
	assert.Equal(t, "Update Product", f.SubmitLabel())
	assert.True(t, f.ShowDelete())
	assert.True(t, f.ShowNew())
	assert.Equal(t, "Blood, Serum", f.ListText(FieldSampleType))

	require.NoError(t, f.Delete(context.Background()))
	assert.Equal(t, "prod-1", deleted)
}

func TestProductForm_DeleteWhileDeleting(t *testing.T) {
	f := New(sampleState(), Options{SelectedID: strPtr("prod-1"), Deleting: true})
	assert.ErrorIs(t, f.Delete(context.Background()), ErrBusy)
}

func TestProductForm_BlurCommitsList(t *testing.T) {
	f := New(sampleState(), Options{})

	require.NoError(t, f.Edit(FieldRegulatoryApprovals, "a,  b ,,c"))
	assert.Nil(t, f.State().RegulatoryApprovals)

	require.NoError(t, f.Blur(FieldRegulatoryApprovals))
	if diff := cmp.Diff([]string{"a", "b", "c"}, f.State().RegulatoryApprovals); diff != "" {
		t.Errorf("regulatory approvals mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "a, b, c", f.ListText(FieldRegulatoryApprovals))
}

func TestProductForm_ScalarEditKeepsListDraft(t *testing.T) {
	f := New(sampleState(), Options{})
	require.NoError(t, f.Edit(FieldSampleType, "Blood, Saliva"))

	require.NoError(t, f.SetScalar(FieldName, "Vitamin D3 Test"))
	f.SetState(f.State())

	assert.Equal(t, "Blood, Saliva", f.ListText(FieldSampleType))
}

func TestProductForm_UpstreamChangeResyncs(t *testing.T) {
	f := New(sampleState(), Options{})
	require.NoError(t, f.Edit(FieldSampleType, "draft"))

	next := sampleState()
	next.SampleType = []string{"Urine"}
	f.SetState(next)

	assert.Equal(t, "Urine", f.ListText(FieldSampleType))
}

func TestProductForm_SubmitFlushesBuffers(t *testing.T) {
	var submitted model.ProductInput
	f := New(sampleState(), Options{
		OnSubmit: func(_ context.Context, s model.ProductInput) error {
			submitted = s
			return nil
		},
	})
	require.NoError(t, f.Edit(FieldWarningsAndPrecautions, "For in vitro use only, Keep away from children"))

	require.NoError(t, f.Submit(context.Background()))

	want := []string{"For in vitro use only", "Keep away from children"}
	if diff := cmp.Diff(want, submitted.WarningsAndPrecautions); diff != "" {
		t.Errorf("submitted warnings mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Blood", "Serum"}, submitted.SampleType); diff != "" {
		t.Errorf("untouched list changed (-want +got):\n%s", diff)
	}
	assert.Nil(t, submitted.RegulatoryApprovals)
}

func TestProductForm_SubmitPropagatesError(t *testing.T) {
	f := New(sampleState(), Options{
		OnSubmit: func(context.Context, model.ProductInput) error { return errors.New("boom") },
	})
	assert.EqualError(t, f.Submit(context.Background()), "boom")
}

func TestProductForm_SubmitWhileSubmitting(t *testing.T) {
	called := false
	f := New(sampleState(), Options{
		Submitting: true,
		OnSubmit: func(context.Context, model.ProductInput) error {
			called = true
			return nil
		},
	})
	assert.ErrorIs(t, f.Submit(context.Background()), ErrBusy)
	assert.False(t, called)
}

func TestProductForm_Reset(t *testing.T) {
	called := false
	f := New(sampleState(), Options{
		SelectedID: strPtr("prod-1"),
		OnReset: func(context.Context) error {
			called = true
			return nil
		},
	})
	require.NoError(t, f.Reset(context.Background()))
	assert.True(t, called)
}

func TestProductForm_SetScalar(t *testing.T) {
	f := New(sampleState(), Options{})

	require.NoError(t, f.SetScalar(FieldBasePrice, "abc"))
	assert.Equal(t, 0.0, f.State().BasePrice)

	require.NoError(t, f.SetScalar(FieldBasePrice, "12.50"))
	assert.Equal(t, 12.5, f.State().BasePrice)
	assert.Equal(t, "12.5", f.Value(FieldBasePrice))

	require.NoError(t, f.SetScalar(FieldWeight, "0.25"))
	require.NotNil(t, f.State().Weight)
	assert.Equal(t, 0.25, *f.State().Weight)

	require.NoError(t, f.SetScalar(FieldWeight, "0"))
	assert.Nil(t, f.State().Weight)

	require.NoError(t, f.SetScalar(FieldWeight, "heavy"))
	assert.Nil(t, f.State().Weight)
	assert.Equal(t, "", f.Value(FieldWeight))

	require.NoError(t, f.SetScalar(FieldStockQuantity, "x"))
	assert.Equal(t, 0, f.State().StockQuantity)

	require.NoError(t, f.SetScalar(FieldCategory, "Hormones"))
	assert.Equal(t, "Hormones", *f.State().Category)
	require.NoError(t, f.SetScalar(FieldCategory, ""))
	assert.Nil(t, f.State().Category)

	require.NoError(t, f.SetScalar(FieldIsActive, ""))
	assert.False(t, f.State().IsActive)
	require.NoError(t, f.SetScalar(FieldIsActive, "on"))
	assert.True(t, f.State().IsActive)

	assert.ErrorIs(t, f.SetScalar(Field("colour"), "red"), ErrUnknownField)
	assert.ErrorIs(t, f.SetScalar(FieldSampleType, "a"), ErrUnknownField)
	assert.ErrorIs(t, f.Edit(FieldName, "a"), ErrNotListField)
}

func TestProductForm_Bind(t *testing.T) {
	f := New(model.ProductInput{IsActive: true}, Options{})

	err := f.Bind(url.Values{
		"name":           {"Thyroid Panel"},
		"sku":            {"THY-3"},
		"base_price":     {"89"},
		"stock_quantity": {"4"},
		"weight":         {""},
		"sample_type":    {"Blood ,Plasma"},
		"description":    {""},
	})
	require.NoError(t, err)

	s := f.State()
	assert.Equal(t, "Thyroid Panel", s.Name)
	assert.Equal(t, "THY-3", s.SKU)
	assert.Equal(t, 89.0, s.BasePrice)
	assert.Equal(t, 4, s.StockQuantity)
	assert.Nil(t, s.Weight)
	assert.Nil(t, s.Description)
	assert.False(t, s.IsActive, "absent checkbox means unchecked")
	assert.Equal(t, "Blood ,Plasma", f.ListText(FieldSampleType))

	f.Flush()
	if diff := cmp.Diff([]string{"Blood", "Plasma"}, f.State().SampleType); diff != "" {
		t.Errorf("sample type mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, f.Missing())
}

func TestProductForm_Missing(t *testing.T) {
	f := New(model.ProductInput{}, Options{})
	require.NoError(t, f.Bind(url.Values{
		"name":           {"  "},
		"base_price":     {""},
		"sku":            {"X-1"},
		"stock_quantity": {"3"},
	}))

	assert.Equal(t, []Field{FieldName, FieldBasePrice}, f.Missing())
}

func TestSpecsCoverEveryField(t *testing.T) {
	f := New(sampleState(), Options{})
	seen := map[Field]bool{}
	for _, spec := range Specs {
		assert.False(t, seen[spec.Field], "duplicate spec for %s", spec.Field)
		seen[spec.Field] = true
		if spec.Kind == KindList {
			assert.ErrorIs(t, f.SetScalar(spec.Field, ""), ErrUnknownField)
		} else {
			assert.NoError(t, f.SetScalar(spec.Field, ""))
		}
	}
	assert.Len(t, seen, 18)
}
