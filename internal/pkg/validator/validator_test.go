package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"rrhh@example.com", "user.name+1@domain.com.ar", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
	}
	invalid := []string{
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"64b7f0c2a1e4f2b8c9d01234",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestDigitsOnly(t *testing.T) {
	cases := map[string]string{
		"30.123.456":   "30123456",
		" 30-123-456 ": "30123456",
		"abc":          "",
		"":             "",
	}
	for in, want := range cases {
		if got := DigitsOnly(in); got != want {
			t.Errorf("DigitsOnly(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2024-03-10", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "10/03/2024", ""}
	for _, s := range valid {
		if _, ok := IsValidDate(s); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDate(s); ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"08:00", "8:12", "23:59", "00:00"}
	invalid := []string{"24:00", "08:60", "0800", "8", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsValidMonth(t *testing.T) {
	if !IsValidMonth("2024-03") {
		t.Errorf("IsValidMonth(2024-03) = false, want true")
	}
	for _, s := range []string{"2024-13", "2024-3", "03-2024", ""} {
		if IsValidMonth(s) {
			t.Errorf("IsValidMonth(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"verbal", "formal", "grave"}
	if !IsInSlice("formal", slice) {
		t.Errorf("IsInSlice('formal') = false, want true")
	}
	if IsInSlice("leve", slice) {
		t.Errorf("IsInSlice('leve') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "invalid"},
		{Field: "phone", Message: "required"},
	}
	got := errs.Error()
	want := "email: invalid; phone: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMapKeepsFirstMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "email", Message: "email is required"},
		{Field: "email", Message: "email must be a valid email address"},
		{Field: "phone", Message: "required"},
	}
	got := errs.ToMap()
	if len(got) != 2 {
		t.Errorf("ValidationErrors.ToMap() length = %d, want 2", len(got))
	}
	if got["email"] != "email is required" {
		t.Errorf("ValidationErrors.ToMap()[email] = %q", got["email"])
	}
}

func TestValidationErrors_OrNil(t *testing.T) {
	var errs ValidationErrors
	if errs.OrNil() != nil {
		t.Errorf("empty ValidationErrors.OrNil() should be nil")
	}
	errs.Add("name", "name is required")
	if errs.OrNil() == nil {
		t.Errorf("non-empty ValidationErrors.OrNil() should not be nil")
	}
}

type structSample struct {
	Name  string  `json:"name" validate:"required,max=10"`
	Kind  string  `json:"kind" validate:"required,oneof=verbal formal grave"`
	Entry *string `json:"entry" validate:"omitempty,clock"`
	Month string  `json:"month" validate:"month"`
}

func TestStruct(t *testing.T) {
	bad := "25:00"
	errs := Struct(structSample{Kind: "leve", Entry: &bad, Month: "2024-3"})
	got := errs.ToMap()

	for _, field := range []string{"name", "kind", "entry", "month"} {
		if _, ok := got[field]; !ok {
			t.Errorf("Struct() missing error for %q: %v", field, got)
		}
	}
	if got["kind"] != "kind must be one of: verbal, formal, grave" {
		t.Errorf("Struct() kind message = %q", got["kind"])
	}

	good := "08:15"
	if errs := Struct(structSample{Name: "ok", Kind: "grave", Entry: &good, Month: "2024-03"}); len(errs) != 0 {
		t.Errorf("Struct() on valid input = %v, want none", errs)
	}
}
