package model

import "time"

type TestMode string

const (
	ModeLearning TestMode = "learning"
	ModeExam     TestMode = "exam"
)

func (m TestMode) Valid() bool {
	return m == ModeLearning || m == ModeExam
}

type Test struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	Mode        TestMode   `json:"mode" gorm:"type:varchar(10);not null;default:'learning'"`
	Position    int        `json:"position" gorm:"not null;default:0;index"`
	Questions   []Question `json:"questions,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
