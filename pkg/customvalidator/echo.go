package customvalidator

import "github.com/go-playground/validator/v10"

// EchoValidator - echo.Validator поверх validator/v10 с правилами заявок и оборудования.
type EchoValidator struct {
	validate *validator.Validate
}

func NewEchoValidator() (*EchoValidator, error) {
	v := validator.New()
	if err := RegisterCustomValidations(v); err != nil {
		return nil, err
	}
	return &EchoValidator{validate: v}, nil
}

func (ev *EchoValidator) Validate(i interface{}) error {
	return ev.validate.Struct(i)
}
