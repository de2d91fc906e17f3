package monitor

import (
	"strings"
	"testing"
)

func validBody() string {
	return `{
		"taxBase": {
			"channel": {"slug": "default-channel"},
			"lines": [],
			"currency": "USD"
		},
		"recipient": {"privateMetadata": []}
	}`
}

func TestValidate(t *testing.T) {
	cm, err := NewCalculateTaxesMonitor()
	if err != nil {
		t.Fatalf("compiling embedded schema: %v", err)
	}

	tests := []struct {
		name          string
		payload       string
		expectValid   bool
		errorContains string
	}{
		{
			name:        "ValidPayload",
			payload:     validBody(),
			expectValid: true,
		},
		{
			name:        "AdditionalPropertiesAllowed",
			payload:     `{"taxBase": {"channel": {"slug": "c"}, "lines": [], "futureField": 1}, "recipient": {"privateMetadata": []}}`,
			expectValid: true,
		},
		{
			name:          "MissingChannelSlug",
			payload:       `{"taxBase": {"channel": {}, "lines": []}, "recipient": {"privateMetadata": []}}`,
			expectValid:   false,
			errorContains: "slug is required",
		},
		{
			name:          "EmptyChannelSlug",
			payload:       `{"taxBase": {"channel": {"slug": ""}, "lines": []}, "recipient": {"privateMetadata": []}}`,
			expectValid:   false,
			errorContains: "slug",
		},
		{
			name:          "LinesNotAnArray",
			payload:       `{"taxBase": {"channel": {"slug": "c"}, "lines": {}}, "recipient": {"privateMetadata": []}}`,
			expectValid:   false,
			errorContains: "Invalid type",
		},
		{
			name:          "MissingRecipient",
			payload:       `{"taxBase": {"channel": {"slug": "c"}, "lines": []}}`,
			expectValid:   false,
			errorContains: "recipient is required",
		},
		{
			name:          "MissingPrivateMetadata",
			payload:       `{"taxBase": {"channel": {"slug": "c"}, "lines": []}, "recipient": {}}`,
			expectValid:   false,
			errorContains: "privateMetadata is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, violations, err := cm.Validate([]byte(tt.payload))
			if err != nil {
				t.Fatalf("unexpected validator error: %v", err)
			}
			if valid != tt.expectValid {
				t.Errorf("expected valid=%v, got valid=%v, violations: %v", tt.expectValid, valid, violations)
			}
			if tt.errorContains != "" && !strings.Contains(strings.Join(violations, "; "), tt.errorContains) {
				t.Errorf("expected violations to contain %q, got: %v", tt.errorContains, violations)
			}
		})
	}
}

func TestValidate_MalformedJSON(t *testing.T) {
	cm, err := NewCalculateTaxesMonitor()
	if err != nil {
		t.Fatalf("compiling embedded schema: %v", err)
	}

	valid, violations, err := cm.Validate([]byte(`{"taxBase": {`))
	if valid {
		t.Errorf("malformed JSON must not validate (violations: %v, err: %v)", violations, err)
	}
	if err == nil && len(violations) == 0 {
		t.Error("expected a functional error or violations for malformed JSON")
	}
}

func TestFormatErrors(t *testing.T) {
	if got := FormatErrors(nil); got != "" {
		t.Errorf("expected empty string for no violations, got %q", got)
	}
	got := FormatErrors([]string{"first", "second"})
	want := "Validation errors: first; second"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
