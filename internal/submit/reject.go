package submit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/programme-lv/vjudge/internal/judge"
)

const emptyRejectMessage = "HTTP 400 Bad Request - The server rejected the submission. " +
	"This could be due to captcha requirements, invalid parameters, or contest restrictions."

// IsCaptchaChallenge reports whether a failed submit is the judge asking for
// a captcha: a 400 whose body contains any of the markers.
func IsCaptchaChallenge(err error, markers []string) bool {
	httpErr, ok := judge.AsHTTPError(err)
	if !ok || !httpErr.IsBadRequest() {
		return false
	}
	body := string(httpErr.Body)
	for _, m := range markers {
		if m != "" && strings.Contains(body, m) {
			return true
		}
	}
	return false
}

// ExtractRejectMessage turns a failed submit into the text shown to the user.
func ExtractRejectMessage(err error) string {
	httpErr, ok := judge.AsHTTPError(err)
	if !ok {
		return err.Error()
	}
	if !httpErr.IsBadRequest() {
		return fmt.Sprintf("Submission failed (HTTP %d)", httpErr.StatusCode)
	}
	if len(httpErr.Body) == 0 {
		return emptyRejectMessage
	}

	var body struct {
		Error string `json:"error"`
	}
	if jsonErr := json.Unmarshal(httpErr.Body, &body); jsonErr != nil {
		raw := []rune(string(httpErr.Body))
		if len(raw) > 200 {
			raw = raw[:200]
		}
		return string(raw) + "..."
	}
	if body.Error != "" {
		return body.Error
	}
	return "Submission failed"
}
