package models

import "time"

// Genres a video can be filed under. Unknown values coming from query
// strings are ignored by the listing engine rather than rejected.
var Genres = []string{
	"comedy",
	"music",
	"education",
	"entertainment",
	"news",
	"sports",
	"gaming",
	"lifestyle",
}

// Age ratings in ascending order of restriction.
var AgeRatings = []string{"G", "PG", "PG-13", "R", "18+"}

func ValidGenre(g string) bool {
	for _, v := range Genres {
		if v == g {
			return true
		}
	}
	return false
}

func ValidAgeRating(r string) bool {
	for _, v := range AgeRatings {
		if v == r {
			return true
		}
	}
	return false
}

type Video struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description" gorm:"type:text"`
	CreatorID   string `json:"creator_id" gorm:"type:uuid;not null;index"`
	Publisher   string `json:"publisher,omitempty" gorm:"size:100"`
	Producer    string `json:"producer,omitempty" gorm:"size:100"`
	Genre       string `json:"genre" gorm:"size:20;not null;index"`
	AgeRating   string `json:"age_rating" gorm:"size:5;not null"`

	// Exactly one of the two is set; the upload service enforces the
	// exclusivity before a row is ever written.
	VideoFile   *string `json:"video_file,omitempty"`
	ExternalURL *string `json:"external_url,omitempty"`

	Duration *int64 `json:"duration,omitempty"` // seconds
	FileSize *int64 `json:"file_size,omitempty"`

	Views    int64 `json:"views" gorm:"default:0;not null"`
	Likes    int64 `json:"likes" gorm:"default:0;not null"`
	Dislikes int64 `json:"dislikes" gorm:"default:0;not null"`

	// Written only by the rating service, inside the same transaction as
	// the rating upsert. Readers always trust this cached value.
	AverageRating float64 `json:"average_rating" gorm:"type:decimal(3,2);default:0;not null"`

	IsActive  bool      `json:"is_active" gorm:"default:true;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Creator User `json:"creator,omitempty" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE;"`
}

// VideoURL resolves the playback reference. A stored file wins over an
// external URL; mediaPrefix is where uploaded files are served from.
func (v *Video) VideoURL(mediaPrefix string) string {
	if v.VideoFile != nil && *v.VideoFile != "" {
		return mediaPrefix + *v.VideoFile
	}
	if v.ExternalURL != nil {
		return *v.ExternalURL
	}
	return ""
}

// FileSizeMB returns the stored file size in megabytes, 0 when the video
// points at an external URL.
func (v *Video) FileSizeMB() float64 {
	if v.FileSize == nil {
		return 0
	}
	return float64(*v.FileSize) / (1024 * 1024)
}

func (Video) TableName() string {
	return "videos"
}
