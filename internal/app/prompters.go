package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/usermgmt/internal/models"
	"github.com/mdp/qrterminal/v3"
)

// getSimpleText, getPassword and renderQR are indirections used to facilitate
// testing. They point to interactive helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getConfirmation = GetConfirmation

var renderQR = func(uri string, w io.Writer) {
	qrterminal.GenerateHalfBlock(uri, qrterminal.L, w)
}

// PromptCode asks an enrolled user for the current authenticator code.
func (a *App) PromptCode(ctx context.Context) (string, error) {
	return getSimpleText(a.reader, "Enter the 6-digit code from your authenticator app", a.out)
}

// OfferEnrollment asks whether the user wants to enable two-factor
// authentication and, if so, renders the enrollment QR code and URI.
func (a *App) OfferEnrollment(ctx context.Context, uri, secret string) (bool, error) {
	ok, err := getConfirmation(a.reader, "Enable two-factor authentication?", a.out)
	if err != nil || !ok {
		return false, err
	}

	fmt.Fprintln(a.out, "\nScan this QR code with your authenticator app:")
	renderQR(uri, a.out)
	fmt.Fprintf(a.out, "\nOr enter the setup key manually: %s\n", secret)
	return true, nil
}

// PromptEnrollmentCode asks for the code the authenticator app shows after
// scanning, to confirm the enrollment.
func (a *App) PromptEnrollmentCode(ctx context.Context) (string, error) {
	return getSimpleText(a.reader, "Enter the code shown by the app to confirm", a.out)
}

// PromptManualGender asks the user to pick a gender when automatic
// classification is unavailable. A nil result means other or skipped.
func (a *App) PromptManualGender(ctx context.Context) (*models.Gender, error) {
	fmt.Fprintln(a.out, "\nGender could not be determined automatically.")
	choice, err := getSimpleText(a.reader, "Choose: 1. Male  2. Female  3. Other  4. Skip", a.out)
	if err != nil {
		return nil, err
	}

	switch choice {
	case "1":
		male := models.GenderMale
		return &male, nil
	case "2":
		female := models.GenderFemale
		return &female, nil
	default:
		return nil, nil
	}
}
