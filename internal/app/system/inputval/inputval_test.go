package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@subdomain.example.com", true},
		{"a@b.co", true},
		{"user@localhost", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
		{"user@exam ple.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	type logInput struct {
		Date     string  `validate:"required,isodate" label:"Date"`
		Weight   float64 `validate:"gt=0" label:"Weight"`
		Workout  int     `validate:"gte=0,lte=600" label:"Workout duration"`
		Email    string  `validate:"required,loginemail" label:"Email address"`
		Name     string  `validate:"max=10" label:"Full name"`
		Gender   string  `validate:"oneof=Male Female" label:"Gender"`
	}
	valid := logInput{Date: "2024-05-01", Weight: 70, Workout: 30, Email: "a@b.co", Name: "Ada", Gender: "Female"}

	tests := []struct {
		name      string
		mutate    func(*logInput)
		wantFirst string
	}{
		{"valid", func(*logInput) {}, ""},
		{"missing date", func(in *logInput) { in.Date = "" }, "Date is required."},
		{"bad date", func(in *logInput) { in.Date = "05/01/2024" }, "Date must be a date (YYYY-MM-DD)."},
		{"zero weight", func(in *logInput) { in.Weight = 0 }, "Weight must be greater than 0."},
		{"long workout", func(in *logInput) { in.Workout = 601 }, "Workout duration must be at most 600."},
		{"bad email", func(in *logInput) { in.Email = "nope" }, "A valid email address is required."},
		{"long name", func(in *logInput) { in.Name = "VeryLongNameHere" }, "Full name must be at most 10 characters."},
		{"bad gender", func(in *logInput) { in.Gender = "x" }, "Gender must be one of: Male, Female."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			res := Validate(in)
			if res.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", res.First(), tt.wantFirst)
			}
			if res.HasErrors() != (tt.wantFirst != "") {
				t.Errorf("HasErrors() = %v", res.HasErrors())
			}
		})
	}
}

func TestResult_All(t *testing.T) {
	r := &Result{}
	if r.All() != "" {
		t.Errorf("All() = %q, want empty", r.All())
	}
	r.Errors = []FieldError{{Message: "Error 1"}, {Message: "Error 2"}}
	if r.All() != "Error 1; Error 2" {
		t.Errorf("All() = %q", r.All())
	}
}

func TestIsValidObjectID(t *testing.T) {
	if !IsValidObjectID("507f1f77bcf86cd799439011") {
		t.Error("expected valid ObjectID")
	}
	if IsValidObjectID("invalid-id") {
		t.Error("expected invalid ObjectID")
	}
}
