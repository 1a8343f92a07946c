package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

type addressForm struct {
	Street   string `form:"address[street]" label:"Street" binding:"required,min=2"`
	City     string `form:"address[city]" label:"City" binding:"required,min=2"`
	Postcode string `form:"address[postcode]" label:"Postcode" binding:"required,min=2"`
}

func (f addressForm) model() models.Address {
	return models.Address{
		Street:   strings.TrimSpace(f.Street),
		City:     strings.TrimSpace(f.City),
		Postcode: strings.TrimSpace(f.Postcode),
	}
}

func addressFormFrom(a models.Address) addressForm {
	return addressForm{Street: a.Street, City: a.City, Postcode: a.Postcode}
}

type loginForm struct {
	Email    string `form:"email" label:"Email" binding:"required,email"`
	Password string `form:"password" label:"Password" binding:"required,min=6"`
}

type registerForm struct {
	FirstName string `form:"firstname" label:"First name" binding:"required,min=2"`
	LastName  string `form:"lastname" label:"Last name" binding:"required,min=2"`
	Mobile    string `form:"mobile" label:"Mobile" binding:"required,min=10"`
	Email     string `form:"email" label:"Email" binding:"required,email"`
	Password  string `form:"password" label:"Password" binding:"required,min=6"`
}

type profileForm struct {
	ID        string      `form:"id" label:"Id" binding:"required,uuid"`
	FirstName string      `form:"firstname" label:"First name" binding:"required,min=2"`
	LastName  string      `form:"lastname" label:"Last name" binding:"required,min=2"`
	Email     string      `form:"email" label:"Email" binding:"required,email"`
	Mobile    string      `form:"mobile" label:"Mobile" binding:"required,min=10"`
	Address   addressForm `label:"Address"`
}

func profileFormFrom(u *models.User) profileForm {
	return profileForm{
		ID:        u.ID.String(),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Address:   addressFormFrom(u.Address),
	}
}

type userForm struct {
	FirstName string      `form:"firstname" label:"First name" binding:"required,min=2"`
	LastName  string      `form:"lastname" label:"Last name" binding:"required,min=2"`
	Email     string      `form:"email" label:"Email" binding:"required,email"`
	Mobile    string      `form:"mobile" label:"Mobile" binding:"required,min=10"`
	Role      models.Role `form:"role" label:"Role" binding:"required,oneof=DONATOR PANTRY ADMIN WAREHOUSE"`
	Address   addressForm `label:"Address"`
}

type newUserForm struct {
	userForm
	Password string `form:"password" label:"Password" binding:"required,min=6"`
}

func (f userForm) input() service.UserInput {
	return service.UserInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Address:   f.Address.model(),
		Email:     f.Email,
		Mobile:    f.Mobile,
	}
}

func userFormFrom(u *models.User) userForm {
	return userForm{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Mobile:    u.Mobile,
		Role:      u.Role,
		Address:   addressFormFrom(u.Address),
	}
}

type measurementForm struct {
	Type  models.MeasurementType `form:"measurement[type]" label:"Measurement" binding:"required,oneof=UNIT KG"`
	Value int                    `form:"measurement[value]" label:"Quantity" binding:"required,min=1,max=100"`
}

type dateInfoForm struct {
	Type models.DateType `form:"dateInfo[dateType]" label:"Date type" binding:"required,oneof=USE_BY BEST_BEFORE PRODUCTION_DATE"`
	Date time.Time       `form:"dateInfo[date]" label:"Date" time_format:"2006-01-02" time_utc:"1" binding:"required"`
}

func (f dateInfoForm) model() models.DateInfo {
	return models.DateInfo{Type: f.Type, Date: f.Date}
}

type donationItemForm struct {
	Name               string                    `form:"name" label:"Name" binding:"required,max=255"`
	Description        string                    `form:"description" label:"Description" binding:"max=2000"`
	Category           models.Category           `form:"category" label:"Category" binding:"required,oneof=FRUIT VEGETABLE MEAT DAIRY GRAIN SEAFOOD BEVERAGE SNACK BAKERY OTHER"`
	StorageRequirement models.StorageRequirement `form:"storageRequirement" label:"Storage" binding:"required,oneof=AMBIENT COLD FROZEN"`
	Measurement        measurementForm           `label:"Measurement"`
	DateInfo           dateInfoForm              `label:"Date"`
}

type newDonationItemForm struct {
	donationItemForm
	Address addressForm `label:"Address"`
}

func (f donationItemForm) input() service.DonationItemInput {
	return service.DonationItemInput{
		Name:               strings.TrimSpace(f.Name),
		Description:        strings.TrimSpace(f.Description),
		Category:           f.Category,
		StorageRequirement: f.StorageRequirement,
		Measurement:        models.Measurement{Type: f.Measurement.Type, Value: f.Measurement.Value},
		DateInfo:           f.DateInfo.model(),
	}
}

func donationItemFormFrom(d *models.DonationItem) donationItemForm {
	return donationItemForm{
		Name:               d.Name,
		Description:        d.Description,
		Category:           d.Category,
		StorageRequirement: d.StorageRequirement,
		Measurement:        measurementForm{Type: d.Measurement.Type, Value: d.Measurement.Value},
		DateInfo:           dateInfoForm{Type: d.DateInfo.Type, Date: d.DateInfo.Date},
	}
}

type windowForm struct {
	Start time.Time `form:"dateTimeRange[start]" label:"Start" time_format:"2006-01-02T15:04" time_utc:"1"`
	End   time.Time `form:"dateTimeRange[end]" label:"End" time_format:"2006-01-02T15:04" time_utc:"1"`
}

func (f windowForm) model() models.TimeWindow {
	var w models.TimeWindow
	if !f.Start.IsZero() {
		start := f.Start
		w.Start = &start
	}
	if !f.End.IsZero() {
		end := f.End
		w.End = &end
	}
	return w
}

type requestForm struct {
	DonationItemID  string                `form:"donationItemId" label:"Donation item" binding:"required,uuid"`
	DeliveryMethod  models.DeliveryMethod `form:"deliveryMethod" label:"Delivery" binding:"required,oneof=COLLECT RECEIVE"`
	Address         addressForm           `label:"Address"`
	AdditionalNotes string                `form:"additionalNotes" label:"Notes" binding:"max=2000"`
	Window          windowForm            `label:"Collection window"`
}

func (f requestForm) input(itemID uuid.UUID) service.NewRequestInput {
	return service.NewRequestInput{
		DonationItemID:  itemID,
		DeliveryMethod:  f.DeliveryMethod,
		Address:         f.Address.model(),
		AdditionalNotes: strings.TrimSpace(f.AdditionalNotes),
		Window:          f.Window.model(),
	}
}

type contactForm struct {
	Name    string `form:"name" label:"Name" binding:"required,max=255"`
	Email   string `form:"email" label:"Email" binding:"required,email"`
	Message string `form:"message" label:"Message" binding:"required,max=5000"`
}

type shopQuery struct {
	DaysAfterBestBefore int             `form:"daysAfterBestBefore,default=0" label:"Days past best before" binding:"gte=0"`
	DaysAfterProduction int             `form:"daysAfterProduction,default=7" label:"Days since production" binding:"gte=0"`
	Category            models.Category `form:"category" label:"Category" binding:"omitempty,oneof=FRUIT VEGETABLE MEAT DAIRY GRAIN SEAFOOD BEVERAGE SNACK BAKERY OTHER"`
	SearchTerm          string          `form:"searchTerm" label:"Search" binding:"max=100"`
}

var registerOnce sync.Once

// RegisterValidators installs the form rules on gin's validator. It is safe
// to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		v.RegisterStructValidation(validateWindow, windowForm{})
	})
}

// validateWindow reports under the "sameday" tag.
func validateWindow(sl validator.StructLevel) {
	f := sl.Current().Interface().(windowForm)
	if err := service.ValidateWindow(f.model()); err != nil {
		sl.ReportError(f.End, "End", "End", "sameday", err.Error())
	}
}

// formMessages turns a binding error into lines for the form's error list.
func formMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"The form could not be read. Check the values and try again."}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "sameday":
		return fe.Param()
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", name)
	case "uuid":
		return fmt.Sprintf("%s is not a valid id", name)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", name, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", name)
	}
}

// formOptions are the select lists of the donation item form.
type formOptions struct {
	Categories          []models.Category
	StorageRequirements []models.StorageRequirement
	MeasurementTypes    []models.MeasurementType
	DateTypes           []models.DateType
}

var itemOptions = formOptions{
	Categories:          models.Categories,
	StorageRequirements: models.StorageRequirements,
	MeasurementTypes:    models.MeasurementTypes,
	DateTypes:           models.DateTypes,
}
