package checkoutControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pethood-np/pethood-api/config"
	khaltiControllers "github.com/pethood-np/pethood-api/controllers/khalti"
	"github.com/pethood-np/pethood-api/mailer"
	"github.com/pethood-np/pethood-api/middleware"
	"github.com/pethood-np/pethood-api/models"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidAddress  = errors.New("address not found")
	ErrMissingBilling  = errors.New("billing address fields are required")
	ErrPaymentDeclined = errors.New("payment was not completed")
	ErrSessionExpired  = errors.New("checkout session has expired")
)

const sessionTTL = time.Hour

type Billing struct {
	FullName    string
	Email       string
	Phone       string
	AddressLine string
	City        string
	PostalCode  string
}

type CheckoutInput struct {
	AddressID     *uint  `json:"address_id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AddressLine   string `json:"address_line"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Label         string `json:"label"`
	SaveAddress   bool   `json:"save_address"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// CheckoutItems resolves which cart lines this checkout consumes: the
// buy-now line when the pointer is set, the whole cart otherwise.
func CheckoutItems(db *gorm.DB, cart *models.Cart) ([]models.CartItem, error) {
	query := db.Preload("Product").Where("cart_id = ?", cart.ID)
	if cart.BuyNowItemID != nil {
		query = query.Where("id = ?", *cart.BuyNowItemID)
	}

	var items []models.CartItem
	if err := query.Order("added_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return items, nil
}

// ResolveBilling turns the checkout input into a billing snapshot, either
// from a saved address owned by the user or from freshly typed fields. Typed
// addresses are persisted when the user opted in or has no addresses yet,
// skipped silently at the 3-address cap or when an identical address
// (line+city+phone) already exists.
func ResolveBilling(db *gorm.DB, user *models.User, input CheckoutInput) (*Billing, error) {
	billing := Billing{
		FullName: input.FullName,
		Email:    input.Email,
	}
	if billing.FullName == "" {
		billing.FullName = user.Username
	}
	if billing.Email == "" {
		billing.Email = user.Email
	}

	if input.AddressID != nil {
		var addr models.Address
		if err := db.Where("id = ? AND user_id = ?", *input.AddressID, user.ID).
			First(&addr).Error; err != nil {
			return nil, ErrInvalidAddress
		}
		billing.Phone = addr.Phone
		billing.AddressLine = addr.AddressLine
		billing.City = addr.City
		billing.PostalCode = addr.PostalCode
		return &billing, nil
	}

	if input.AddressLine == "" || input.City == "" || input.Phone == "" {
		return nil, ErrMissingBilling
	}
	billing.Phone = input.Phone
	billing.AddressLine = input.AddressLine
	billing.City = input.City
	billing.PostalCode = input.PostalCode

	var count int64
	if err := db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if (input.SaveAddress || count == 0) && count < models.MaxAddressesPerUser {
		var dup int64
		if err := db.Model(&models.Address{}).
			Where("user_id = ? AND address_line = ? AND city = ? AND phone = ?",
				user.ID, input.AddressLine, input.City, input.Phone).
			Count(&dup).Error; err != nil {
			return nil, err
		}
		if dup == 0 {
			label := input.Label
			if label == "" {
				label = "Home"
			}
			addr := models.Address{
				UserID:      user.ID,
				Label:       label,
				AddressLine: input.AddressLine,
				City:        input.City,
				PostalCode:  input.PostalCode,
				Phone:       input.Phone,
			}
			if err := models.CreateAddress(db, &addr); err != nil {
				logrus.WithError(err).Warn("failed to save checkout address")
			}
		}
	}
	return &billing, nil
}

// PlaceOrder materializes an immutable order from the given cart lines,
// snapshotting unit prices, then deletes the consumed lines and clears the
// buy-now pointer, all in one transaction.
func PlaceOrder(db *gorm.DB, userID uint, items []models.CartItem, billing *Billing,
	method models.PaymentMethod, verified bool, pidx, transactionID string) (*models.Order, error) {

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	total := models.CartTotal(items)
	order := models.Order{
		UserID:               userID,
		FullName:             billing.FullName,
		Email:                billing.Email,
		Phone:                billing.Phone,
		AddressLine:          billing.AddressLine,
		City:                 billing.City,
		PostalCode:           billing.PostalCode,
		TotalAmount:          total.Add(models.ShippingCost),
		ShippingCost:         models.ShippingCost,
		PaymentMethod:        method,
		Status:               models.OrderStatusPending,
		PaymentVerified:      verified,
		GatewayPidx:          pidx,
		GatewayTransactionID: transactionID,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Price:     item.Product.Price,
		})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		number, err := models.NewOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = number

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		itemIDs := make([]uint, 0, len(items))
		for _, item := range items {
			itemIDs = append(itemIDs, item.ID)
		}
		if err := tx.Where("id IN ?", itemIDs).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("user_id = ?", userID).
			Update("buy_now_item_id", nil).Error
	})
	if err != nil {
		return nil, err
	}

	// Reload with product data for the confirmation email and response.
	if err := db.Preload("Items.Product").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// POST /shop/checkout
func CheckoutHandler(db *gorm.DB, m *mailer.Mailer, gw khaltiControllers.Gateway, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserID(c)

		var input CheckoutInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		cart, err := models.GetOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		items, err := CheckoutItems(db, cart)
		if errors.Is(err, ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			return
		}

		billing, err := ResolveBilling(db, &user, input)
		if errors.Is(err, ErrInvalidAddress) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address not found"})
			return
		}
		if errors.Is(err, ErrMissingBilling) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Address line, city and phone are required"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve billing address"})
			return
		}

		switch models.PaymentMethod(input.PaymentMethod) {
		case models.PaymentMethodCOD:
			order, err := PlaceOrder(db, userID, items, billing, models.PaymentMethodCOD, false, "", "")
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
				return
			}
			if err := m.SendOrderConfirmation(order); err != nil {
				logrus.WithError(err).WithField("order", order.OrderNumber).
					Warn("order confirmation email failed")
			}
			c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})

		case models.PaymentMethodKhalti:
			initiateGatewayPayment(c, db, gw, cfg, cart, items, billing)

		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		}
	}
}

func initiateGatewayPayment(c *gin.Context, db *gorm.DB, gw khaltiControllers.Gateway,
	cfg *config.Config, cart *models.Cart, items []models.CartItem, billing *Billing) {

	total := models.CartTotal(items).Add(models.ShippingCost)
	purchaseOrderID, err := models.NewOrderNumber(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		return
	}

	session := models.CheckoutSession{
		Token:           uuid.NewString(),
		UserID:          cart.UserID,
		BuyNowItemID:    cart.BuyNowItemID,
		FullName:        billing.FullName,
		Email:           billing.Email,
		Phone:           billing.Phone,
		AddressLine:     billing.AddressLine,
		City:            billing.City,
		PostalCode:      billing.PostalCode,
		Amount:          total,
		PurchaseOrderID: purchaseOrderID,
		Status:          models.CheckoutStatusPending,
		ExpiresAt:       time.Now().Add(sessionTTL),
	}
	if err := db.Create(&session).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start checkout"})
		return
	}

	resp, err := gw.Initiate(khaltiControllers.InitiateRequest{
		ReturnURL:         cfg.Khalti.ReturnURL,
		WebsiteURL:        cfg.BaseURL,
		Amount:            total.Mul(decimal.NewFromInt(100)).IntPart(),
		PurchaseOrderID:   purchaseOrderID,
		PurchaseOrderName: fmt.Sprintf("Pethood order %s", purchaseOrderID),
		CustomerInfo: khaltiControllers.CustomerInfo{
			Name:  billing.FullName,
			Email: billing.Email,
			Phone: billing.Phone,
		},
	})
	if err != nil {
		failSession(db, &session)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment initiation failed: " + err.Error()})
		return
	}

	if err := db.Model(&session).Update("gateway_pidx", resp.Pidx).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_url":       resp.PaymentURL,
		"pidx":              resp.Pidx,
		"purchase_order_id": purchaseOrderID,
		"token":             session.Token,
	})
}

// failSession is best-effort: the caller is already on an error path.
func failSession(db *gorm.DB, session *models.CheckoutSession) {
	if err := db.Model(session).Update("status", models.CheckoutStatusFailed).Error; err != nil {
		logrus.WithError(err).WithField("token", session.Token).
			Warn("failed to mark checkout session failed")
	}
}

// CompleteGatewayOrder verifies a payment index against the gateway and
// materializes the order exactly once. A session already completed (the
// callback firing twice) returns the existing order; a pending session past
// its expiry is marked failed without consulting the gateway.
func CompleteGatewayOrder(db *gorm.DB, gw khaltiControllers.Gateway, pidx string) (*models.Order, error) {
	var session models.CheckoutSession
	if err := db.Where("gateway_pidx = ?", pidx).First(&session).Error; err != nil {
		return nil, err
	}

	if session.Status == models.CheckoutStatusCompleted && session.OrderID != nil {
		var order models.Order
		if err := db.Preload("Items.Product").First(&order, *session.OrderID).Error; err != nil {
			return nil, err
		}
		return &order, nil
	}

	if time.Now().After(session.ExpiresAt) {
		failSession(db, &session)
		return nil, ErrSessionExpired
	}

	lookup, err := gw.Lookup(pidx)
	if err != nil {
		return nil, err
	}
	if lookup.Status != khaltiControllers.StatusCompleted {
		failSession(db, &session)
		return nil, fmt.Errorf("%w: gateway status %q", ErrPaymentDeclined, lookup.Status)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", session.UserID).First(&cart).Error; err != nil {
		return nil, err
	}
	// The buy-now pointer stashed at initiation time wins over whatever the
	// cart row says now.
	cart.BuyNowItemID = session.BuyNowItemID

	items, err := CheckoutItems(db, &cart)
	if err != nil {
		return nil, err
	}

	billing := Billing{
		FullName:    session.FullName,
		Email:       session.Email,
		Phone:       session.Phone,
		AddressLine: session.AddressLine,
		City:        session.City,
		PostalCode:  session.PostalCode,
	}
	order, err := PlaceOrder(db, session.UserID, items, &billing,
		models.PaymentMethodKhalti, true, pidx, lookup.TransactionID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(&session).Updates(map[string]interface{}{
		"status":   models.CheckoutStatusCompleted,
		"order_id": order.ID,
	}).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// GET /payment/khalti/callback
func CallbackHandler(db *gorm.DB, m *mailer.Mailer, gw khaltiControllers.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		pidx := c.Query("pidx")
		if pidx == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pidx is required"})
			return
		}

		order, err := CompleteGatewayOrder(db, gw, pidx)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown payment session"})
			return
		}
		if errors.Is(err, ErrSessionExpired) {
			c.JSON(http.StatusGone, gin.H{"error": "Checkout session has expired, please start again"})
			return
		}
		if errors.Is(err, ErrPaymentDeclined) {
			c.JSON(http.StatusOK, gin.H{"message": "Payment was not completed", "status": c.Query("status")})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify payment"})
			return
		}

		if err := m.SendOrderConfirmation(order); err != nil {
			logrus.WithError(err).WithField("order", order.OrderNumber).
				Warn("order confirmation email failed")
		}

		c.JSON(http.StatusOK, gin.H{"message": "Payment verified, order placed", "order": order})
	}
}
