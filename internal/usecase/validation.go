package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	crmPattern     = regexp.MustCompile(`^\d{4,7}$`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	allowedGenders = []string{"Feminino", "Masculino", "Outro"}
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func OnlyDigits(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// IsValidCPF checks length, repeated digits and both mod-11 check digits.
func IsValidCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return false
	}
	if strings.Count(d, d[:1]) == 11 {
		return false
	}
	return cpfCheckDigit(d[:9], 10) == int(d[9]-'0') &&
		cpfCheckDigit(d[:10], 11) == int(d[10]-'0')
}

func cpfCheckDigit(digits string, weight int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

func IsValidCRM(crm string) bool {
	return crmPattern.MatchString(strings.TrimSpace(crm))
}

// IsStrongPassword: 8+ chars with lowercase, uppercase and a digit.
func IsStrongPassword(p string) bool {
	return len(p) >= 8 &&
		lowerPattern.MatchString(p) &&
		upperPattern.MatchString(p) &&
		digitPattern.MatchString(p)
}

func IsValidPhone(phone string) bool {
	n := len(OnlyDigits(phone))
	return n >= 10 && n <= 11
}

func IsValidCEP(cep string) bool {
	return len(OnlyDigits(cep)) == 8
}

func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func IsValidGender(g string) bool {
	for _, a := range allowedGenders {
		if strings.EqualFold(strings.TrimSpace(g), a) {
			return true
		}
	}
	return false
}

// NormalizeGender devolve a grafia canônica (Feminino, Masculino, Outro).
func NormalizeGender(g string) string {
	for _, a := range allowedGenders {
		if strings.EqualFold(strings.TrimSpace(g), a) {
			return a
		}
	}
	return strings.TrimSpace(g)
}

// FormatCPF renders 000.000.000-00. Inputs that are not 11 digits come back as digits.
func FormatCPF(cpf string) string {
	d := OnlyDigits(cpf)
	if len(d) != 11 {
		return d
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatPhone renders (00) 0000-0000 or (00) 00000-0000.
func FormatPhone(phone string) string {
	d := OnlyDigits(phone)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	default:
		return d
	}
}

func FormatCEP(cep string) string {
	d := OnlyDigits(cep)
	if len(d) != 8 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

func required(errs []ValidationError, field, value string) []ValidationError {
	if strings.TrimSpace(value) == "" {
		return append(errs, ValidationError{field, "is required"})
	}
	return errs
}
