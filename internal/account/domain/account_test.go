package domain

import "testing"

func validAccount() *Account {
	return &Account{
		ID:       "acct-1",
		Phone:    "+15551112222",
		Name:     "Juan Dela Cruz",
		DOB:      "1990-04-15",
		Gender:   "Male",
		Address:  "123 Acacia St",
		Barangay: "Poblacion",
	}
}

func TestValidate_OK(t *testing.T) {
	a := validAccount()
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	a.Email = "juan@example.com"
	a.Role = RoleUser
	if err := a.Validate(); err != nil {
		t.Fatalf("Validate with optional fields: %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Account)
	}{
		{"empty name", func(a *Account) { a.Name = "  " }},
		{"bad dob format", func(a *Account) { a.DOB = "15-04-1990" }},
		{"bad gender", func(a *Account) { a.Gender = "unknown" }},
		{"short address", func(a *Account) { a.Address = "ab" }},
		{"short barangay", func(a *Account) { a.Barangay = " x " }},
		{"bad email", func(a *Account) { a.Email = "not-an-email" }},
		{"bad role", func(a *Account) { a.Role = "superuser" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAccount()
			tc.mutate(a)
			if err := a.Validate(); err == nil {
				t.Errorf("Validate should fail for %s", tc.name)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	a := validAccount()
	if a.IsAdmin() {
		t.Error("account without role should not be admin")
	}
	a.Role = RoleAdmin
	if !a.IsAdmin() {
		t.Error("account with admin role should be admin")
	}
	var nilAcct *Account
	if nilAcct.IsAdmin() {
		t.Error("nil account should not be admin")
	}
}
