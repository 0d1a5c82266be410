package domain

// Category groups titles by kind (book, film, music, ...). Identity key
// for the API is the slug, not the numeric id.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:250;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex:ux_categories_slug;not null" json:"slug"`
}

func (Category) TableName() string { return "categories" }

type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:250;not null" json:"name"`
	Slug string `gorm:"size:50;uniqueIndex:ux_genres_slug;not null" json:"slug"`
}

func (Genre) TableName() string { return "genres" }

// Title is a reviewable work. Its rating is derived from review scores
// on read and never stored.
type Title struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:250;not null" json:"name"`
	Year        int       `gorm:"not null" json:"year"`
	Description string    `gorm:"size:400" json:"description"`
	CategoryID  *uint     `gorm:"index" json:"-"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Genres      []Genre   `gorm:"many2many:genre_titles;constraint:OnDelete:CASCADE" json:"genres,omitempty"`
}

func (Title) TableName() string { return "titles" }

// GenreTitle is the join row behind Title.Genres. Declared explicitly so
// the store can clean up links when a genre or title goes away.
type GenreTitle struct {
	TitleID uint `gorm:"primaryKey" db:"title_id"`
	GenreID uint `gorm:"primaryKey" db:"genre_id"`
}

func (GenreTitle) TableName() string { return "genre_titles" }
