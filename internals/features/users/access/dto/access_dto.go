package dto

// AccessFlags is the per-user capability read model.
type AccessFlags struct {
	AddObjectiveAccess bool `json:"add_objective_access"`
	AdminMasterAccess  bool `json:"admin_master_access"`
}

// UpdateAccessRequest replaces a user's capability set wholesale.
type UpdateAccessRequest struct {
	AddObjectiveAccess bool `json:"add_objective_access"`
	AdminMasterAccess  bool `json:"admin_master_access"`
}
