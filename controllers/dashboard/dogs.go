package dashboardControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/models"
)

var (
	ErrAlreadyApproved = errors.New("listing is already approved")
	ErrNotApproved     = errors.New("listing is not approved yet")
	ErrAlreadyAdopted  = errors.New("listing is already marked adopted")
	ErrReasonRequired  = errors.New("a rejection reason is required")
)

type ModerationInput struct {
	Message   string `json:"message"`
	SendEmail bool   `json:"send_email"`
}

// GET /dashboard/dogs?status=pending|approved|adopted
func ListDogsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Lister").Preload("Images")
		switch c.Query("status") {
		case "pending":
			query = query.Where("is_approved = ?", false)
		case "approved":
			query = query.Where("is_approved = ? AND is_adopted = ?", true, false)
		case "adopted":
			query = query.Where("is_adopted = ?", true)
		}

		var dogs []models.Dog
		if err := query.Order("created_at DESC").Find(&dogs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch dogs"})
			return
		}
		c.JSON(http.StatusOK, dogs)
	}
}

// ApproveDog publishes a submitted listing.
func ApproveDog(db *gorm.DB, dogID uint) (*models.Dog, error) {
	var dog models.Dog
	if err := db.Preload("Lister").First(&dog, dogID).Error; err != nil {
		return nil, err
	}
	if dog.IsApproved {
		return nil, ErrAlreadyApproved
	}
	if err := db.Model(&dog).Update("is_approved", true).Error; err != nil {
		return nil, err
	}
	dog.IsApproved = true
	return &dog, nil
}

// RejectDog hard-deletes a submitted listing; the caller decides whether the
// lister is notified first.
func RejectDog(db *gorm.DB, dogID uint) (*models.Dog, error) {
	var dog models.Dog
	if err := db.Preload("Lister").Preload("Images").First(&dog, dogID).Error; err != nil {
		return nil, err
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dog_id = ?", dog.ID).Delete(&models.DogImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dog).Error
	})
	if err != nil {
		return nil, err
	}
	return &dog, nil
}

// MarkAdopted transitions an approved listing to adopted. No reverse
// transition exists.
func MarkAdopted(db *gorm.DB, dogID uint) (*models.Dog, error) {
	var dog models.Dog
	if err := db.Preload("Lister").First(&dog, dogID).Error; err != nil {
		return nil, err
	}
	if !dog.IsApproved {
		return nil, ErrNotApproved
	}
	if dog.IsAdopted {
		return nil, ErrAlreadyAdopted
	}
	if err := db.Model(&dog).Update("is_adopted", true).Error; err != nil {
		return nil, err
	}
	dog.IsAdopted = true
	return &dog, nil
}

// POST /dashboard/dogs/:id/approve
func ApproveDogHandler(db *gorm.DB, m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ModerationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		dog, err := moderated(c, db, ApproveDog)
		if err != nil {
			return
		}

		message := "Dog listing approved"
		if input.SendEmail {
			if err := m.SendListingApproved(dog, strings.TrimSpace(input.Message)); err != nil {
				logrus.WithError(err).WithField("dog", dog.Slug).Warn("approval email failed")
				message = "Dog approved but email failed"
			} else {
				message = "Dog listing approved and email sent"
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "dog": dog})
	}
}

// POST /dashboard/dogs/:id/reject
func RejectDogHandler(db *gorm.DB, m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ModerationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		reason := strings.TrimSpace(input.Message)
		if input.SendEmail && reason == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide a rejection reason."})
			return
		}

		// Email goes out before the row disappears.
		var dog models.Dog
		if err := db.Preload("Lister").First(&dog, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dog not found"})
			return
		}

		message := "Dog listing rejected"
		if input.SendEmail {
			if err := m.SendListingRejected(&dog, reason); err != nil {
				logrus.WithError(err).WithField("dog", dog.Slug).Warn("rejection email failed")
				message = "Dog rejected but email failed"
			} else {
				message = "Dog listing rejected and email sent"
			}
		}

		if _, err := RejectDog(db, dog.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message})
	}
}

// POST /dashboard/dogs/:id/adopt
func MarkAdoptedHandler(db *gorm.DB, m *mailer.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ModerationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		dog, err := moderated(c, db, MarkAdopted)
		if err != nil {
			return
		}

		message := "Dog marked as adopted"
		if input.SendEmail {
			if err := m.SendListingAdopted(dog); err != nil {
				logrus.WithError(err).WithField("dog", dog.Slug).Warn("adoption email failed")
				message = "Dog marked as adopted but email failed"
			} else {
				message = "Dog marked as adopted and email sent"
			}
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "dog": dog})
	}
}

// moderated runs a state transition and writes the error response on
// failure, so handlers only deal with the success path.
func moderated(c *gin.Context, db *gorm.DB, fn func(*gorm.DB, uint) (*models.Dog, error)) (*models.Dog, error) {
	var dog models.Dog
	if err := db.First(&dog, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dog not found"})
		return nil, err
	}

	result, err := fn(db, dog.ID)
	switch {
	case errors.Is(err, ErrAlreadyApproved), errors.Is(err, ErrNotApproved), errors.Is(err, ErrAlreadyAdopted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return nil, err
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Moderation action failed"})
		return nil, err
	}
	return result, nil
}
