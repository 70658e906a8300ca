package kunena

// Message is one forum post: a <prefix>fb_messages row joined with its
// body from <prefix>fb_messages_text. Parent is 0 for thread roots.
// The parent column name varies by schema version and is aliased to
// "parent" in the batch query.
type Message struct {
	ID      int    `gorm:"column:id"`
	Thread  int    `gorm:"column:thread"`
	Parent  int    `gorm:"column:parent"`
	CatID   int    `gorm:"column:catid"`
	UserID  int    `gorm:"column:userid"`
	Subject string `gorm:"column:subject"`
	Time    int64  `gorm:"column:time"`
	Message string `gorm:"column:message"`
}

// Attachment represents a row of <prefix>fb_attachments. FileLocation is
// an absolute path from whichever server the forum lived on at the time.
type Attachment struct {
	MesID        int    `gorm:"column:mesid"`
	FileLocation string `gorm:"column:filelocation"`
}
