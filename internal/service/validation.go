package service

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

var validRoles = []interface{}{
	"",
	string(model.RoleAdmin),
	string(model.RoleOrganizer),
	string(model.RoleUser),
}

type accountInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

// validateAccount checks the fields required to open an account. Email is
// required but its format is not checked.
func validateAccount(in *accountInput) error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Username, validation.Required.Error("username is required")),
		validation.Field(&in.Password, validation.Required.Error("password is required")),
		validation.Field(&in.Email, validation.Required.Error("email is required")),
		validation.Field(&in.Role, validation.In(validRoles...).Error("role must be admin, organizer or user")),
	)
}

// validateEventDetails checks the fields required on create and update.
func validateEventDetails(d *model.EventDetails) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Title, validation.Required.Error("title is required")),
		validation.Field(&d.Description, validation.Required.Error("description is required")),
		validation.Field(&d.Venue, validation.Required.Error("venue is required")),
		validation.Field(&d.Date, validation.Required.Error("date is required")),
		validation.Field(&d.Capacity, validation.Required.Error("capacity is required"),
			validation.Min(1).Error("capacity must be a positive integer")),
	)
}
