package api

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/teamsync/onboard/internal/services"
)

type signupPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Plan        string `json:"plan"`
	CompanySize int    `json:"company_size"`
	Timezone    string `json:"timezone"`
	Locale      string `json:"locale"`
}

func parseSignupPayload(c *fiber.Ctx) (services.SignupInput, error) {
	payload := signupPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return services.SignupInput{}, errors.New("invalid signup payload")
	}

	input := services.SignupInput{
		ID:          strings.TrimSpace(payload.ID),
		Email:       strings.ToLower(strings.TrimSpace(payload.Email)),
		Name:        strings.TrimSpace(payload.Name),
		Company:     strings.TrimSpace(payload.Company),
		Plan:        payload.Plan,
		CompanySize: payload.CompanySize,
		Timezone:    strings.TrimSpace(payload.Timezone),
		Locale:      strings.TrimSpace(payload.Locale),
	}

	if err := services.ValidateSignupInput(input); err != nil {
		return services.SignupInput{}, err
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return services.SignupInput{}, errors.New("invalid email")
	}
	return input, nil
}

func userIDParam(c *fiber.Ctx) (string, error) {
	userID := strings.TrimSpace(c.Params("id"))
	if userID == "" {
		return "", errors.New("missing user id")
	}
	return userID, nil
}
