package accounts

// CreateAccountRequest carries the payload for account creation.
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Type     string `json:"account_type" validate:"required"`
	IsSystem bool   `json:"is_system"`
}

// UpdateAccountRequest carries a partial account update.
type UpdateAccountRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Type *string `json:"account_type,omitempty"`
}

// ListFilter narrows listAccounts results.
type ListFilter struct {
	Type   AccountType
	Status AccountStatus
}

// AccountResponse is the JSON shape of an account.
type AccountResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"account_type"`
	IsSystem  bool   `json:"is_system"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      string(a.Type),
		IsSystem:  a.IsSystem,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
