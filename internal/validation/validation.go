package validation

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// UsernamePattern defines the valid username format: alphanumeric, dots, hyphens, underscores.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// MaxTitleLength bounds link titles.
const MaxTitleLength = 200

// ValidateUsername checks if a username matches the allowed pattern.
func ValidateUsername(username string) bool {
	if username == "" || len(username) > 50 {
		return false
	}
	return UsernamePattern.MatchString(username)
}

// ValidateEmail checks that email is a bare address such as "alice@x.com".
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// This prevents javascript:, data:, vbscript:, and other dangerous URL schemes.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// ValidateLink checks the required fields of a new link. Description is free text;
// an image URL, when present, follows the same scheme rules as the link URL.
func ValidateLink(title, linkURL, imageURL string, categoryID int64) (bool, string) {
	if strings.TrimSpace(title) == "" || linkURL == "" || categoryID <= 0 {
		return false, "Title, URL, and category are required"
	}
	if len(title) > MaxTitleLength {
		return false, "Title is too long"
	}
	if valid, msg := ValidateURL(linkURL); !valid {
		return false, msg
	}
	if imageURL != "" {
		if valid, msg := ValidateURL(imageURL); !valid {
			return false, "Image " + msg
		}
	}
	return true, ""
}

// ValidateRegistration checks the fields submitted when creating an account.
func ValidateRegistration(username, email, password, fullName string) (bool, string) {
	if username == "" || email == "" || password == "" || strings.TrimSpace(fullName) == "" {
		return false, "All fields are required"
	}
	if !ValidateUsername(username) {
		return false, "Username must contain only letters, numbers, dots, hyphens, and underscores"
	}
	if !ValidateEmail(email) {
		return false, "Invalid email address"
	}
	return true, ""
}
