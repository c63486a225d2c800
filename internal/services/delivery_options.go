// internal/services/delivery_options.go
package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/javajoker/bazaar-backend/internal/models"
)

// MaxDeliveryOptions bounds the options a product can offer.
const MaxDeliveryOptions = 5

var (
	ErrDeliveryOptionLimit = fmt.Errorf("a product can have at most %d delivery options", MaxDeliveryOptions)
	ErrDeliveryOptionIndex = errors.New("delivery option index out of range")
	ErrDeliveryType        = errors.New("unknown delivery type")
)

var deliveryLabels = map[models.DeliveryType]models.LocalizedText{
	models.DeliveryTypeStandard: {En: "Standard Delivery", Fa: "ارسال عادی", Ps: "عادي لیږد"},
	models.DeliveryTypeExpress:  {En: "Express Delivery", Fa: "ارسال سریع", Ps: "چټک لیږد"},
	models.DeliveryTypeFree:     {En: "Free Delivery", Fa: "ارسال رایگان", Ps: "وړیا لیږد"},
}

var deliveryDefaults = map[models.DeliveryType]struct {
	hours      int
	confidence int
}{
	models.DeliveryTypeStandard: {hours: 72, confidence: 90},
	models.DeliveryTypeExpress:  {hours: 24, confidence: 95},
	models.DeliveryTypeFree:     {hours: 120, confidence: 85},
}

// DeliveryLabel returns the canonical trilingual label of t.
func DeliveryLabel(t models.DeliveryType) models.LocalizedText {
	return deliveryLabels[t]
}

// NewDeliveryOption returns an active option of type t with its canonical
// label and estimates.
func NewDeliveryOption(t models.DeliveryType) models.DeliveryOption {
	defaults := deliveryDefaults[t]
	return models.DeliveryOption{
		Type:              t,
		Label:             DeliveryLabel(t),
		Price:             decimal.Zero,
		DeliveryHours:     defaults.hours,
		ConfidencePercent: defaults.confidence,
		IsActive:          true,
	}
}

// DeliveryOptionsEditor is a bounded list of delivery options. After every
// mutation exactly one option is the default, unless the list is empty, and
// free options cost nothing.
type DeliveryOptionsEditor struct {
	items []models.DeliveryOption
}

func NewDeliveryOptionsEditor(items []models.DeliveryOption) *DeliveryOptionsEditor {
	return &DeliveryOptionsEditor{items: NormalizeDeliveryOptions(items)}
}

// Items returns a copy of the current options, nil when there are none.
func (e *DeliveryOptionsEditor) Items() []models.DeliveryOption {
	if len(e.items) == 0 {
		return nil
	}
	out := make([]models.DeliveryOption, len(e.items))
	copy(out, e.items)
	return out
}

func (e *DeliveryOptionsEditor) Len() int {
	return len(e.items)
}

func (e *DeliveryOptionsEditor) Add(opt models.DeliveryOption) error {
	if len(e.items) >= MaxDeliveryOptions {
		return ErrDeliveryOptionLimit
	}
	if !opt.Type.Valid() {
		return ErrDeliveryType
	}

	e.items = append(e.items, opt)
	idx := len(e.items) - 1
	if opt.IsDefault {
		e.setDefault(idx)
	}
	e.enforce()
	return nil
}

// Remove deletes the option at i. Removing the default promotes the first
// remaining option.
func (e *DeliveryOptionsEditor) Remove(i int) error {
	if err := e.check(i); err != nil {
		return err
	}
	e.items = append(e.items[:i], e.items[i+1:]...)
	e.enforce()
	return nil
}

func (e *DeliveryOptionsEditor) SetDefault(i int) error {
	if err := e.check(i); err != nil {
		return err
	}
	e.setDefault(i)
	return nil
}

// SetType changes the shipping type of option i and rewrites its label to
// the type's canonical one. Switching to free zeroes the price.
func (e *DeliveryOptionsEditor) SetType(i int, t models.DeliveryType) error {
	if err := e.check(i); err != nil {
		return err
	}
	if !t.Valid() {
		return ErrDeliveryType
	}

	e.items[i].Type = t
	e.items[i].Label = DeliveryLabel(t)
	e.enforce()
	return nil
}

// Update applies fn to option i and restores the list invariants.
func (e *DeliveryOptionsEditor) Update(i int, fn func(opt *models.DeliveryOption)) error {
	if err := e.check(i); err != nil {
		return err
	}

	opt := e.items[i]
	fn(&opt)
	if !opt.Type.Valid() {
		return ErrDeliveryType
	}

	wasDefault := e.items[i].IsDefault
	e.items[i] = opt
	if opt.IsDefault && !wasDefault {
		e.setDefault(i)
	}
	e.enforce()
	return nil
}

func (e *DeliveryOptionsEditor) check(i int) error {
	if i < 0 || i >= len(e.items) {
		return ErrDeliveryOptionIndex
	}
	return nil
}

func (e *DeliveryOptionsEditor) setDefault(i int) {
	for j := range e.items {
		e.items[j].IsDefault = j == i
	}
}

func (e *DeliveryOptionsEditor) enforce() {
	e.items = NormalizeDeliveryOptions(e.items)
}

// NormalizeDeliveryOptions returns opts with free options priced at zero,
// negative prices clamped, and exactly one default: the first one marked,
// or the first option when none is.
func NormalizeDeliveryOptions(opts []models.DeliveryOption) []models.DeliveryOption {
	if len(opts) == 0 {
		return nil
	}

	out := make([]models.DeliveryOption, len(opts))
	copy(out, opts)

	defaultIdx := -1
	for i := range out {
		if out[i].Type == models.DeliveryTypeFree || out[i].Price.IsNegative() {
			out[i].Price = decimal.Zero
		}
		if out[i].IsDefault && defaultIdx < 0 {
			defaultIdx = i
		}
	}
	if defaultIdx < 0 {
		defaultIdx = 0
	}
	for i := range out {
		out[i].IsDefault = i == defaultIdx
	}
	return out
}
