package models

// Patient is a directory entry. The wizard treats it as an opaque read-only
// reference selected from the directory; it never mutates patient data.
type Patient struct {
	ID          string `bson:"id" json:"id"`
	FirstName   string `bson:"firstName" json:"firstName"`
	LastName    string `bson:"lastName" json:"lastName"`
	DateOfBirth string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	InsuranceID string `bson:"insuranceId,omitempty" json:"insuranceId,omitempty"`
	Phone       string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	FCMToken    string `bson:"fcmToken,omitempty" json:"-"`
}
