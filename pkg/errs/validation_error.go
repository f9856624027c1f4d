package errs

type ValidationError interface {
	ValidationError()
}

type ValidationErrorImpl struct {
}

func (ValidationErrorImpl) ValidationError() {
}

func IsValidationError(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}
