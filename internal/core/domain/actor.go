package domain

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleOperator   Role = "operator"
	RoleCollector  Role = "collector"
)

type SubjectKind string

const (
	SubjectAdmin    SubjectKind = "admin"
	SubjectCustomer SubjectKind = "customer"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	SubjectID uint64
	Kind      SubjectKind
}

// ChannelKind selects an identity map of the connection registry.
type ChannelKind string

const (
	ChannelPayee    ChannelKind = "payee"
	ChannelCustomer ChannelKind = "customer"
	ChannelAnon     ChannelKind = "anonymous"
)
