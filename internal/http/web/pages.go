package web

import (
	"net/http"

	"github.com/amberstream/webportal/internal/catalog"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// pageHandler renders the public marketing pages.
type pageHandler struct {
	db *gorm.DB
}

// newPageHandler constructs a pageHandler.
func newPageHandler(db *gorm.DB) *pageHandler {
	return &pageHandler{db: db}
}

// Home renders the main marketing page.
func (h *pageHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "home.html", gin.H{})
}

// About renders the company background page.
func (h *pageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "About Us",
		"Lead":  "AmberStream has supplied electricity to the region for over two decades, combining a modern grid with a customer-first approach.",
	})
}

// Contact renders the contact page.
func (h *pageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "Contact",
		"Lead":  "Reach our support team at support@amberstream.example or call 0800-AMBER during business hours.",
	})
}

// Plans renders the public plan overview with current rates.
func (h *pageHandler) Plans(c *gin.Context) {
	snap, errSnap := catalog.TakeSnapshot(h.db.WithContext(c.Request.Context()))
	if errSnap != nil {
		c.String(http.StatusInternalServerError, "plans unavailable")
		return
	}
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "Our Plans",
		"Lead":  "Choose the electricity plan that fits your household or business.",
		"Plans": snap.Plans,
	})
}

// News renders the news page.
func (h *pageHandler) News(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "News",
		"Lead":  "Updates from AmberStream: grid expansion, new tariffs, and community programs.",
	})
}

// Services renders the services page.
func (h *pageHandler) Services(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "Services",
		"Lead":  "From smart metering to business energy audits, AmberStream offers services beyond the socket.",
	})
}

// Sustainability renders the sustainability page.
func (h *pageHandler) Sustainability(c *gin.Context) {
	c.HTML(http.StatusOK, "page.html", gin.H{
		"Title": "Sustainability",
		"Lead":  "We invest in renewable generation and aim for a carbon-neutral supply mix.",
	})
}
