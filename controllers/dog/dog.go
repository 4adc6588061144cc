package dogControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/media"
	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

// ErrNoDefaultAddress blocks listing submission until the lister has a
// reachable default address.
var ErrNoDefaultAddress = errors.New("a default address with a phone number is required to list a dog")

// GET /dogs returns approved, not yet adopted listings only.
func ListDogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dogs []models.Dog
		if err := db.Preload("Images").
			Where("is_approved = ? AND is_adopted = ?", true, false).
			Order("created_at DESC").
			Find(&dogs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dogs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"dogs": dogs, "total_dogs": len(dogs)})
	}
}

// GET /dogs/mine returns the lister's own listings in any state.
func ListOwnDogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var dogs []models.Dog
		if err := db.Preload("Images").
			Where("lister_id = ?", userID).
			Order("created_at DESC").
			Find(&dogs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dogs"})
			return
		}
		c.JSON(http.StatusOK, dogs)
	}
}

// GET /dogs/:slug. Unapproved or adopted rows are visible only to the
// owning lister and staff; everyone else gets a 404.
func GetDog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dog models.Dog
		if err := db.Preload("Images").
			Where("slug = ?", c.Param("slug")).
			First(&dog).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dog not found"})
			return
		}

		if !dog.IsApproved || dog.IsAdopted {
			if dog.ListerID != middleware.UserID(c) && !middleware.IsStaff(c) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Dog not found"})
				return
			}
		}
		c.JSON(http.StatusOK, dog)
	}
}

// SubmitListing validates the lister's default address and creates an
// unapproved listing.
func SubmitListing(db *gorm.DB, dog *models.Dog) error {
	addr, err := models.DefaultAddress(db, dog.ListerID)
	if err != nil || addr.Phone == "" {
		return ErrNoDefaultAddress
	}

	slug, err := models.UniqueSlug(db, &models.Dog{}, dog.Name)
	if err != nil {
		return err
	}
	dog.Slug = slug
	dog.IsApproved = false
	dog.IsAdopted = false

	return db.Create(dog).Error
}

// POST /dogs (multipart)
func CreateDogHandler(db *gorm.DB, m *mailer.Mailer, mediaRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		name := strings.TrimSpace(c.PostForm("name"))
		breed := strings.TrimSpace(c.PostForm("breed"))
		if name == "" || breed == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and breed are required"})
			return
		}

		gender := models.DogGender(c.PostForm("gender"))
		if gender != models.GenderMale && gender != models.GenderFemale {
			c.JSON(http.StatusBadRequest, gin.H{"error": "gender must be male or female"})
			return
		}

		ageMonths := 0
		if raw := c.PostForm("age_months"); raw != "" {
			age, err := strconv.Atoi(raw)
			if err != nil || age < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid age_months"})
				return
			}
			ageMonths = age
		}

		price := decimal.Zero
		if raw := c.PostForm("price"); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil || parsed.IsNegative() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			price = parsed
		}

		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}
		primary := form.File["image"]
		extras := form.File["images"]
		if len(primary) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A main image is required"})
			return
		}
		if 1+len(extras) > models.MaxDogImages {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At most 5 images are allowed per listing"})
			return
		}

		imagePath, err := media.SaveUpload(c, primary[0], mediaRoot, "dogs")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		dog := models.Dog{
			Name:        name,
			Breed:       breed,
			Gender:      gender,
			AgeMonths:   ageMonths,
			Behaviour:   c.PostForm("behaviour"),
			Description: c.PostForm("description"),
			Price:       price,
			ListerID:    userID,
			Location:    c.PostForm("location"),
			Image:       imagePath,
		}
		for _, extra := range extras {
			path, err := media.SaveUpload(c, extra, mediaRoot, "dogs")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			dog.Images = append(dog.Images, models.DogImage{Image: path})
		}

		if err := SubmitListing(db, &dog); err != nil {
			if errors.Is(err, ErrNoDefaultAddress) {
				c.JSON(http.StatusBadRequest, gin.H{"error": ErrNoDefaultAddress.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
			return
		}

		notifyAdmins(db, m, &dog)
		c.JSON(http.StatusCreated, gin.H{
			"message": "Listing submitted and awaiting approval",
			"dog":     dog,
		})
	}
}

func notifyAdmins(db *gorm.DB, m *mailer.Mailer, dog *models.Dog) {
	if err := db.Preload("Lister").First(dog, dog.ID).Error; err != nil {
		logrus.WithError(err).Warn("failed to load listing for admin notification")
		return
	}
	var adminEmails []string
	if err := db.Model(&models.User{}).
		Where("is_staff = ? AND email <> ''", true).
		Pluck("email", &adminEmails).Error; err != nil {
		logrus.WithError(err).Warn("failed to load admin emails")
		return
	}
	if err := m.SendNewListingToAdmins(dog, adminEmails); err != nil {
		logrus.WithError(err).WithField("dog", dog.Slug).Warn("admin notification email failed")
	}
}
