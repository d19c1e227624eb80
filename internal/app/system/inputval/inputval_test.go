package inputval

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid emails
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},

		// Invalid emails
		{"", false},
		{"   ", false},
		{"notanemail", false},
		{"@example.com", false},
		{"user@", false},
		{"user example.com", false},
		{"Name <user@example.com>", false}, // ParseAddress accepts this but we want bare email
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		// Valid URLs
		{"http://example.com", true},
		{"https://example.com", true},
		{"https://example.com/path?query=value", true},
		{"http://localhost:8080", true},

		// Invalid URLs
		{"", false},
		{"   ", false},
		{"example.com", false},          // No scheme
		{"ftp://example.com", false},    // Wrong scheme
		{"javascript:alert(1)", false},  // Wrong scheme
		{"https:///missing-host", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := IsValidHTTPURL(tt.url)
			if got != tt.want {
				t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#2563eb", true},
		{"#FFFFFF", true},
		{"#000000", true},
		{"  #2563eb  ", true},

		{"", false},
		{"2563eb", false},   // missing #
		{"#2563e", false},   // too short
		{"#2563ebf", false}, // too long
		{"#25g3eb", false},  // bad hex digit
		{"blue", false},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			got := IsValidHexColor(tt.color)
			if got != tt.want {
				t.Errorf("IsValidHexColor(%q) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type TestInput struct {
		Title string `validate:"required" label:"Title"`
		URL   string `validate:"required,httpurl" label:"URL"`
	}

	tests := []struct {
		name      string
		input     TestInput
		wantError bool
	}{
		{
			name:      "valid input",
			input:     TestInput{Title: "Go Blog", URL: "https://go.dev/blog"},
			wantError: false,
		},
		{
			name:      "missing title",
			input:     TestInput{Title: "", URL: "https://go.dev/blog"},
			wantError: true,
		},
		{
			name:      "missing url",
			input:     TestInput{Title: "Go Blog", URL: ""},
			wantError: true,
		},
		{
			name:      "bad url scheme",
			input:     TestInput{Title: "Go Blog", URL: "ftp://go.dev"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if tt.wantError && !result.HasErrors() {
				t.Errorf("Validate() expected errors, got none")
			}
			if !tt.wantError && result.HasErrors() {
				t.Errorf("Validate() expected no errors, got: %s", result.First())
			}
		})
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type ColorInput struct {
		Color string `validate:"required,hexcolor" label:"Color"`
	}

	result := Validate(ColorInput{Color: "#2563eb"})
	if result.HasErrors() {
		t.Errorf("Validate() hexcolor should be valid, got: %s", result.First())
	}

	result = Validate(ColorInput{Color: "blue"})
	if !result.HasErrors() {
		t.Error("Validate() hexcolor=blue should fail")
	}

	type PermInput struct {
		Permissions string `validate:"required,sharepermission" label:"Permissions"`
	}

	result = Validate(PermInput{Permissions: "edit"})
	if result.HasErrors() {
		t.Errorf("Validate() sharepermission=edit should be valid, got: %s", result.First())
	}

	result = Validate(PermInput{Permissions: "owner"})
	if !result.HasErrors() {
		t.Error("Validate() sharepermission=owner should fail")
	}
}

func TestValidate_MinMaxRules(t *testing.T) {
	type LengthInput struct {
		Name string `validate:"required,max=50" label:"Name"`
	}

	result := Validate(LengthInput{Name: "Reading List"})
	if result.HasErrors() {
		t.Errorf("Validate() valid length should pass, got: %s", result.First())
	}

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	result = Validate(LengthInput{Name: string(long)})
	if !result.HasErrors() {
		t.Error("Validate() 51-char name should fail max=50")
	}
}

func TestResult_First(t *testing.T) {
	r := &Result{}
	if got := r.First(); got != "" {
		t.Errorf("First() on empty result = %q, want empty string", got)
	}

	r = &Result{
		Errors: []FieldError{
			{Field: "title", Label: "Title", Message: "Title is required."},
			{Field: "url", Label: "URL", Message: "URL is required."},
		},
	}
	if got := r.First(); got != "Title is required." {
		t.Errorf("First() = %q, want %q", got, "Title is required.")
	}
}

func TestResult_Fields(t *testing.T) {
	r := &Result{}
	if got := r.Fields(); got != nil {
		t.Errorf("Fields() on empty result = %v, want nil", got)
	}

	r = &Result{
		Errors: []FieldError{
			{Field: "title", Label: "Title", Message: "Title is required."},
			{Field: "url", Label: "URL", Message: "URL is required."},
		},
	}
	fields := r.Fields()
	if fields["title"] != "Title is required." || fields["url"] != "URL is required." {
		t.Errorf("Fields() = %v", fields)
	}
}

func TestValidate_JSONTags(t *testing.T) {
	type Input struct {
		FolderName string `json:"folder_name" validate:"required" label:"Folder name"`
	}

	result := Validate(Input{FolderName: ""})
	if !result.HasErrors() {
		t.Error("Validate() empty FolderName should fail")
	}
	if result.First() != "Folder name is required." {
		t.Errorf("Validate() error message = %q, want label-based message", result.First())
	}
}

func TestValidate_PointerStruct(t *testing.T) {
	type Input struct {
		Name string `validate:"required" label:"Name"`
	}

	input := &Input{Name: "test"}
	result := Validate(input)
	if result.HasErrors() {
		t.Errorf("Validate() pointer struct should work, got: %s", result.First())
	}
}
