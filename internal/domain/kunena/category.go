package kunena

// Category represents a row of <prefix>fb_categories.
// Parent is 0 for root categories.
type Category struct {
	ID          int    `gorm:"column:id;primaryKey"`
	Parent      int    `gorm:"column:parent"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
	Ordering    int    `gorm:"column:ordering"`
}
