package serializers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeEscapesHTML(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;bold&lt;/b&gt;", sanitize("<b>bold</b>"))
	assert.Equal(t, "plain text", sanitize("  plain text  "))
	assert.NotContains(t, sanitize(`<script>alert("x")</script>`), "<script>")
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "9780441478125", digitsOnly("978-0-441-47812-5"))
	assert.Equal(t, "9780441478125", digitsOnly(" 978 0441478125 "))
	assert.Equal(t, "", digitsOnly("no digits"))
}

func TestBookRequestValidation(t *testing.T) {
	valid := func() BookRequest {
		return BookRequest{
			Title:           "The Dispossessed",
			ISBN:            "9780060512750",
			PublicationYear: 1974,
			AuthorID:        1,
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		r := valid()
		assert.Nil(t, r.Validate())
	})

	t.Run("hyphenated isbn normalized", func(t *testing.T) {
		r := valid()
		r.ISBN = "978-0-06-051275-0"
		assert.Nil(t, r.Validate())
		assert.Equal(t, "9780060512750", r.ISBN)
	})

	t.Run("short isbn", func(t *testing.T) {
		r := valid()
		r.ISBN = "12345"
		errs := r.Validate()
		assert.Contains(t, errs, "isbn")
	})

	t.Run("future year", func(t *testing.T) {
		r := valid()
		r.PublicationYear = 3000
		errs := r.Validate()
		assert.Contains(t, errs, "publication_year")
	})

	t.Run("ancient year", func(t *testing.T) {
		r := valid()
		r.PublicationYear = 999
		errs := r.Validate()
		assert.Contains(t, errs, "publication_year")
	})

	t.Run("title escaped", func(t *testing.T) {
		r := valid()
		r.Title = "<script>bad</script> title"
		assert.Nil(t, r.Validate())
		assert.NotContains(t, r.Title, "<script>")
	})
}

func TestRegisterRequestValidation(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{
			Username:        "newuser",
			Email:           "newuser@example.com",
			Password:        "password123",
			PasswordConfirm: "password123",
		}
	}

	t.Run("valid request passes", func(t *testing.T) {
		r := valid()
		assert.Nil(t, r.Validate())
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		r := valid()
		r.PasswordConfirm = "different"
		errs := r.Validate()
		assert.Contains(t, errs, "password")
	})

	t.Run("username too short", func(t *testing.T) {
		r := valid()
		r.Username = "ab"
		errs := r.Validate()
		assert.Contains(t, errs, "username")
	})

	t.Run("oversized bio", func(t *testing.T) {
		r := valid()
		r.Bio = strings.Repeat("x", 501)
		errs := r.Validate()
		assert.Contains(t, errs, "bio")
	})
}

func TestReviewRequestValidation(t *testing.T) {
	t.Run("rating bounds", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			r := ReviewRequest{Rating: rating, ReviewText: "Long enough review text."}
			errs := r.Validate()
			assert.Contains(t, errs, "rating")
		}
	})

	t.Run("text length", func(t *testing.T) {
		r := ReviewRequest{Rating: 3, ReviewText: "short"}
		errs := r.Validate()
		assert.Contains(t, errs, "review_text")
	})
}

func TestValidationErrorsOrNil(t *testing.T) {
	assert.Nil(t, ValidationErrors{}.OrNil())
	assert.NotNil(t, ValidationErrors{"field": "broken"}.OrNil())
}
