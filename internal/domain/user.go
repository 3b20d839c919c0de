package domain

// User is the learner snapshot needed for nudging.
type User struct {
	ID       int64
	Username string
	Email    string
}

// EnterpriseCustomer is the corporate customer a learner may belong to.
type EnterpriseCustomer struct {
	Slug                string
	EnableLearnerPortal bool
}
