package utils

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/tangerineArc/campus-roots-backend/models"
)

// ErrIneligibleEmail means the admission year encoded in the email is outside
// the range the community accepts.
var ErrIneligibleEmail = errors.New("email is not eligible for registration")

const earliestAdmissionYear = 2008

// DecideUserRole derives a community role from an organizational email
// address. The admission year lives in the local part: either as the leading
// digits of one of the underscore-separated chunks, or as the last two
// characters when there is no underscore.
func DecideUserRole(email string) (string, error) {
	currentYear := time.Now().Year()

	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}

	chunks := strings.SplitN(local, "_", 2)

	var yearDigits string
	if len(chunks) > 1 {
		if strings.ContainsAny(chunks[0], "0123456789") {
			yearDigits = firstTwo(chunks[0])
		} else {
			yearDigits = firstTwo(chunks[1])
		}
	} else if len(local) >= 2 {
		yearDigits = local[len(local)-2:]
	}

	yy, err := strconv.Atoi(yearDigits)
	if err != nil {
		return "", ErrIneligibleEmail
	}

	admissionYear := 2000 + yy
	if admissionYear < earliestAdmissionYear || admissionYear > currentYear {
		return "", ErrIneligibleEmail
	}

	if currentYear-admissionYear > 4 {
		return models.RoleAlumnus, nil
	}
	return models.RoleStudent, nil
}

func firstTwo(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[:2]
}
