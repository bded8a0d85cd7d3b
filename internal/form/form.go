// Package form is the view model behind the product create/edit form. It
// holds the record being edited, the free-text buffers of list fields and
// the user's intents; persistence is left to the injected callbacks.
package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edvin/kitcatalog/internal/model"
)

var (
	ErrNoSelection  = errors.New("no product selected")
	ErrBusy         = errors.New("action already in progress")
	ErrUnknownField = errors.New("unknown form field")
	ErrNotListField = errors.New("not a list field")
)

// Options carries everything the form receives from its owner.
type Options struct {
	// SelectedID is the product being edited. Nil means create mode.
	SelectedID *string
	Submitting bool
	Deleting   bool

	OnSubmit func(ctx context.Context, state model.ProductInput) error
	OnReset  func(ctx context.Context) error
	OnDelete func(ctx context.Context, id string) error
}

type ProductForm struct {
	opts  Options
	state model.ProductInput
	lists map[Field]*ListBuffer
	blank map[Field]bool
}

// New returns a form showing state.
func New(state model.ProductInput, opts Options) *ProductForm {
	f := &ProductForm{
		opts:  opts,
		state: state,
		lists: make(map[Field]*ListBuffer, len(ListFields)),
		blank: make(map[Field]bool),
	}
	for _, field := range ListFields {
		f.lists[field] = NewListBuffer(f.listValue(field))
	}
	return f
}

// State returns the current record, including committed list values only.
func (f *ProductForm) State() model.ProductInput { return f.state }

// SetState applies an upstream record change. List buffers are resynced for
// the list fields whose value changed.
func (f *ProductForm) SetState(state model.ProductInput) {
	f.state = state
	for _, field := range ListFields {
		f.lists[field].Sync(f.listValue(field))
	}
}

// Edit records a keystroke in a list field. The record is not changed.
func (f *ProductForm) Edit(field Field, text string) error {
	b, ok := f.lists[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotListField, field)
	}
	b.Edit(text)
	return nil
}

// Blur commits the text of a list field into the record.
func (f *ProductForm) Blur(field Field) error {
	b, ok := f.lists[field]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotListField, field)
	}
	f.setListValue(field, b.Blur())
	return nil
}

// ListText is the text shown in a list field's input.
func (f *ProductForm) ListText(field Field) string {
	if b, ok := f.lists[field]; ok {
		return b.Text()
	}
	return ""
}

// SetScalar applies raw input to a non-list field. Numbers that do not parse
// become 0, except weight which becomes unset. Empty optional text is unset.
func (f *ProductForm) SetScalar(field Field, raw string) error {
	f.blank[field] = strings.TrimSpace(raw) == ""

	s := &f.state
	switch field {
	case FieldName:
		s.Name = raw
	case FieldSKU:
		s.SKU = raw
	case FieldBasePrice:
		s.BasePrice = parseFloat(raw)
	case FieldWeight:
		if w := parseFloat(raw); w != 0 {
			s.Weight = &w
		} else {
			s.Weight = nil
		}
	case FieldStockQuantity:
		s.StockQuantity = parseInt(raw)
	case FieldIsActive:
		s.IsActive = parseCheckbox(raw)
	case FieldDescription:
		s.Description = optional(raw)
	case FieldCategory:
		s.Category = optional(raw)
	case FieldDimensions:
		s.Dimensions = optional(raw)
	case FieldIntendedUse:
		s.IntendedUse = optional(raw)
	case FieldTestType:
		s.TestType = optional(raw)
	case FieldResultsTime:
		s.ResultsTime = optional(raw)
	case FieldStorageConditions:
		s.StorageConditions = optional(raw)
	case FieldKitContentsSummary:
		s.KitContentsSummary = optional(raw)
	case FieldUserManualURL:
		s.UserManualURL = optional(raw)
	default:
		if _, ok := f.lists[field]; ok {
			return fmt.Errorf("%w: %s is a list field", ErrUnknownField, field)
		}
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Bind applies a posted form. Absent text fields are left alone; an absent
// checkbox means unchecked.
func (f *ProductForm) Bind(values url.Values) error {
	for _, spec := range Specs {
		key := string(spec.Field)
		_, present := values[key]
		switch {
		case spec.Kind == KindCheckbox:
			if err := f.SetScalar(spec.Field, values.Get(key)); err != nil {
				return err
			}
		case !present:
		case spec.Kind == KindList:
			if err := f.Edit(spec.Field, values.Get(key)); err != nil {
				return err
			}
		default:
			if err := f.SetScalar(spec.Field, values.Get(key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Missing lists required fields that are empty, in display order.
func (f *ProductForm) Missing() []Field {
	var missing []Field
	for _, spec := range Specs {
		if !spec.Required {
			continue
		}
		empty := f.blank[spec.Field]
		switch spec.Field {
		case FieldName:
			empty = strings.TrimSpace(f.state.Name) == ""
		case FieldSKU:
			empty = strings.TrimSpace(f.state.SKU) == ""
		}
		if empty {
			missing = append(missing, spec.Field)
		}
	}
	return missing
}

// Submit commits every list buffer, then hands the record to OnSubmit.
func (f *ProductForm) Submit(ctx context.Context) error {
	if f.opts.Submitting {
		return ErrBusy
	}
	f.Flush()
	if f.opts.OnSubmit == nil {
		return nil
	}
	return f.opts.OnSubmit(ctx, f.state)
}

// Flush commits pending text in all list fields.
func (f *ProductForm) Flush() {
	for _, field := range ListFields {
		if f.lists[field].Dirty() {
			f.setListValue(field, f.lists[field].Blur())
		}
	}
}

func (f *ProductForm) Reset(ctx context.Context) error {
	if f.opts.OnReset == nil {
		return nil
	}
	return f.opts.OnReset(ctx)
}

func (f *ProductForm) Delete(ctx context.Context) error {
	if f.opts.SelectedID == nil {
		return ErrNoSelection
	}
	if f.opts.Deleting {
		return ErrBusy
	}
	if f.opts.OnDelete == nil {
		return nil
	}
	return f.opts.OnDelete(ctx, *f.opts.SelectedID)
}

func (f *ProductForm) Editing() bool { return f.opts.SelectedID != nil }

func (f *ProductForm) SelectedID() string {
	if f.opts.SelectedID == nil {
		return ""
	}
	return *f.opts.SelectedID
}

func (f *ProductForm) Title() string {
	if f.Editing() {
		return "Edit Product"
	}
	return "Create New Product"
}

func (f *ProductForm) SubmitLabel() string {
	if f.Editing() {
		return "Update Product"
	}
	return "Create Product"
}

func (f *ProductForm) ShowNew() bool    { return f.Editing() }
func (f *ProductForm) ShowDelete() bool { return f.Editing() }

func (f *ProductForm) Submitting() bool { return f.opts.Submitting }
func (f *ProductForm) Deleting() bool   { return f.opts.Deleting }

// Value is the text shown in a field's input.
func (f *ProductForm) Value(field Field) string {
	s := f.state
	switch field {
	case FieldName:
		return s.Name
	case FieldSKU:
		return s.SKU
	case FieldBasePrice:
		return strconv.FormatFloat(s.BasePrice, 'f', -1, 64)
	case FieldWeight:
		if s.Weight == nil {
			return ""
		}
		return strconv.FormatFloat(*s.Weight, 'f', -1, 64)
	case FieldStockQuantity:
		return strconv.Itoa(s.StockQuantity)
	case FieldIsActive:
		return strconv.FormatBool(s.IsActive)
	case FieldDescription:
		return deref(s.Description)
	case FieldCategory:
		return deref(s.Category)
	case FieldDimensions:
		return deref(s.Dimensions)
	case FieldIntendedUse:
		return deref(s.IntendedUse)
	case FieldTestType:
		return deref(s.TestType)
	case FieldResultsTime:
		return deref(s.ResultsTime)
	case FieldStorageConditions:
		return deref(s.StorageConditions)
	case FieldKitContentsSummary:
		return deref(s.KitContentsSummary)
	case FieldUserManualURL:
		return deref(s.UserManualURL)
	}
	return f.ListText(field)
}

func (f *ProductForm) listValue(field Field) []string {
	switch field {
	case FieldSampleType:
		return f.state.SampleType
	case FieldRegulatoryApprovals:
		return f.state.RegulatoryApprovals
	case FieldWarningsAndPrecautions:
		return f.state.WarningsAndPrecautions
	}
	return nil
}

func (f *ProductForm) setListValue(field Field, items []string) {
	switch field {
	case FieldSampleType:
		f.state.SampleType = items
	case FieldRegulatoryApprovals:
		f.state.RegulatoryApprovals = items
	case FieldWarningsAndPrecautions:
		f.state.WarningsAndPrecautions = items
	}
}

func parseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func optional(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
