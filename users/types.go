package users

import "time"

type Role string

const (
	RoleAdminOrg          Role = "ADMIN_ORG"
	RoleZoneManager       Role = "ZONE_MANAGER"
	RoleCollectiveManager Role = "COLLECTIVE_MANAGER"
	RoleStaff             Role = "STAFF"
	RoleUser              Role = "USER"
)

// IsManager reports whether the role manages zones or collectives.
func (r Role) IsManager() bool {
	return r == RoleZoneManager || r == RoleCollectiveManager
}

func (r Role) IsStaff() bool {
	return r == RoleCollectiveManager || r == RoleStaff
}

type LicenseType string

const (
	LicenseFreeTrial  LicenseType = "FREE_TRIAL"
	LicensePartner    LicenseType = "PARTNER"
	LicenseEnterprise LicenseType = "ENTERPRISE"
	LicenseInternal   LicenseType = "INTERNAL"
)

type License struct {
	ID             string      `json:"id"`
	ExpirationDate time.Time   `json:"expirationDate"`
	LicenseType    LicenseType `json:"licenseType"`
}

type User struct {
	ID                     string     `json:"id"`
	Email                  string     `json:"email"`
	Code                   string     `json:"code"`
	FullName               string     `json:"fullName"`
	Locale                 string     `json:"locale"`
	Info                   string     `json:"info"`
	IconColour             string     `json:"iconColour"`
	Role                   Role       `json:"role"`
	OrganizationID         string     `json:"organizationId"`
	GroupIDs               []string   `json:"groupIds"`
	BuildingIDs            []int      `json:"buildingIds"`
	License                *License   `json:"license,omitempty"`
	VerifiedByAdmin        bool       `json:"verifiedByAdmin"`
	IsVerified             bool       `json:"isVerified"`
	SubscribedToNewsletter bool       `json:"subscribedToNewsletter"`
	LastActivity           *time.Time `json:"lastActivity,omitempty"`
	TermsAcceptedAt        *time.Time `json:"termsAcceptedAt,omitempty"`
	ImportationDate        *time.Time `json:"importationDate,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

type Form struct {
	Email                  string   `json:"email"`
	Password               string   `json:"password,omitempty"`
	OrganizationID         string   `json:"organizationId,omitempty"`
	FullName               string   `json:"fullName,omitempty"`
	Locale                 string   `json:"locale,omitempty"`
	Code                   string   `json:"code,omitempty"`
	SubscribedToNewsletter *bool    `json:"subscribedToNewsletter,omitempty"`
	VerifiedByAdmin        *bool    `json:"verifiedByAdmin,omitempty"`
	GroupIDs               []string `json:"groupIds,omitempty"`
	BuildingIDs            []int    `json:"buildingIds,omitempty"`
	Role                   Role     `json:"role,omitempty"`
	IconColour             string   `json:"iconColour,omitempty"`
	Info                   string   `json:"info,omitempty"`
	AcceptTerms            *bool    `json:"acceptTerms,omitempty"`
}

type Search struct {
	Page         int
	Size         int
	Sort         string
	Direction    string
	IDs          []string
	ExcludeIDs   []string
	GroupIDs     []string
	BuildingIDs  []int
	HasBuildings *bool
	FullName     string
	Codes        []string
}

// createPayload is what the API expects on creation: the role flags are
// derived rather than supplied.
type createPayload struct {
	Form
	IsManager bool `json:"isManager"`
	IsStaff   bool `json:"isStaff"`
}

// serverUser keeps the legacy role alias. Deprecated server fields are
// not mapped.
type serverUser struct {
	User
	RoleID Role `json:"roleId"`
}
