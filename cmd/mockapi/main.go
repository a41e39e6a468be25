// mockapi is the development backend for the bokjikok client. It serves the
// built-in sample catalog over the same wire contract the production API
// exposes, so the client can be exercised end to end without real
// infrastructure: BOKJIKOK_DEV=1 bokjikok pairs with this server.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/bokjikok/bokjikok/internal/catalog"
	"github.com/bokjikok/bokjikok/internal/chat"
	"github.com/bokjikok/bokjikok/internal/match"
	"github.com/bokjikok/bokjikok/internal/models"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}

	srv, err := newServer()
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Mock API starting on port %s...", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatal(err)
	}
}

type server struct {
	items     []models.BenefitItem
	jwtSecret []byte

	demoEmail    string
	demoName     string
	demoPassHash []byte
}

func newServer() (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:3000"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	secret, err := jwtSecretFromEnv()
	if err != nil {
		return nil, err
	}

	demoPassword := os.Getenv("DEMO_PASSWORD")
	if demoPassword == "" {
		demoPassword = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}

	s := &server{
		items:        catalog.SampleItems(),
		jwtSecret:    secret,
		demoEmail:    envOr("DEMO_EMAIL", "demo@bokjikok.kr"),
		demoName:     envOr("DEMO_NAME", "데모 사용자"),
		demoPassHash: hash,
	}

	e.GET("/health", s.handleHealth)
	e.GET("/policies", s.handlePolicies)
	e.POST("/chat", s.handleChat)
	e.POST("/diagnosis", s.handleDiagnosis)
	e.POST("/auth/login", s.handleLogin)

	return e, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func jwtSecretFromEnv() ([]byte, error) {
	if secret := strings.TrimSpace(os.Getenv("JWT_SECRET")); secret != "" {
		return []byte(secret), nil
	}
	buf := make([]byte, 48)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate JWT fallback secret: %w", err)
	}
	log.Print("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	return []byte(base64.RawURLEncoding.EncodeToString(buf)), nil
}

func (s *server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// wireBenefit is the loose upstream record shape the client normalizes from.
// Deadlines go out as dates, always-open programs as the 상시 sentinel.
type wireBenefit struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	Summary    string   `json:"summary,omitempty"`
	Amount     string   `json:"amount"`
	Agency     string   `json:"agency"`
	Deadline   string   `json:"deadline"`
	Conditions string   `json:"conditions"`
	Benefits   []string `json:"benefits,omitempty"`
}

func toWire(item models.BenefitItem) wireBenefit {
	w := wireBenefit{
		ID:         item.ID,
		Title:      item.Title,
		Category:   item.Category,
		Summary:    item.Summary,
		Amount:     item.Amount,
		Agency:     item.Agency,
		Conditions: item.Conditions,
		Benefits:   item.Benefits,
	}
	if item.AlwaysOpen {
		w.Deadline = "상시"
	} else if item.Deadline != nil {
		w.Deadline = item.Deadline.Format("2006-01-02")
	}
	return w
}

func toWireList(items []models.BenefitItem) []wireBenefit {
	out := make([]wireBenefit, 0, len(items))
	for _, item := range items {
		out = append(out, toWire(item))
	}
	return out
}

func (s *server) handlePolicies(c echo.Context) error {
	category := c.QueryParam("category")
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))
	region := strings.TrimSpace(c.QueryParam("region"))

	limit := len(s.items)
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 {
		limit = l
	}

	var out []models.BenefitItem
	for _, item := range s.items {
		if category != "" && category != "전체" && item.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(item.Title+" "+item.Conditions+" "+item.Agency), q) {
			continue
		}
		if region != "" && !matchesRegion(item, region) {
			continue
		}
		out = append(out, item)
		if len(out) >= limit {
			break
		}
	}

	return c.JSON(http.StatusOK, map[string]any{"policies": toWireList(out)})
}

// matchesRegion keeps nationwide programs and those run by an agency covering
// the requested region.
func matchesRegion(item models.BenefitItem, region string) bool {
	if !strings.Contains(item.Agency, "시") && !strings.Contains(item.Agency, "도") {
		return true
	}
	return strings.Contains(item.Agency, region) || strings.Contains(item.Conditions, region)
}

type chatRequest struct {
	Message  string          `json:"message"`
	Context  string          `json:"context"`
	UserInfo *models.Profile `json:"userInfo"`
}

// categoryKeywords routes chat messages to catalog categories for the
// recommendation list attached to replies. First match wins.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"주거", "주거"}, {"월세", "주거"}, {"전세", "주거"},
	{"교육", "교육"}, {"장학금", "교육"}, {"학비", "교육"},
	{"고용", "고용"}, {"취업", "고용"}, {"일자리", "고용"},
	{"의료", "의료"}, {"건강보험", "의료"}, {"병원비", "의료"},
	{"육아", "육아"}, {"자녀", "육아"}, {"출산", "육아"},
}

func (s *server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message is required"})
	}

	reply := chat.Answer(message)

	var recommended []models.BenefitItem
	for _, kc := range categoryKeywords {
		if !strings.Contains(message, kc.keyword) {
			continue
		}
		for _, item := range s.items {
			if item.Category == kc.category {
				recommended = append(recommended, item)
			}
		}
		break
	}

	return c.JSON(http.StatusOK, map[string]any{
		"reply":    reply,
		"policies": toWireList(recommended),
	})
}

type diagnosisRequest struct {
	Age    string `json:"age"`
	Income string `json:"income"`
	Job    string `json:"job"`
}

func (s *server) handleDiagnosis(c echo.Context) error {
	var req diagnosisRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	profile := models.Profile{Age: req.Age, Income: req.Income, Job: models.JobStatus(req.Job)}
	if verr := match.Validate(profile); verr != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": verr.Error()})
	}

	age, _ := strconv.Atoi(strings.TrimSpace(req.Age))
	var out []models.BenefitItem
	for _, item := range s.items {
		if age > 34 && strings.Contains(item.Title, "청년") {
			continue
		}
		if profile.Job != models.JobStudent && item.Category == "교육" {
			continue
		}
		out = append(out, item)
	}

	return c.JSON(http.StatusOK, map[string]any{"policies": toWireList(out)})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if !strings.EqualFold(req.Email, s.demoEmail) {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}
	if err := bcrypt.CompareHashAndPassword(s.demoPassHash, []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	}

	claims := jwt.MapClaims{
		"sub":   s.demoEmail,
		"name":  s.demoName,
		"email": s.demoEmail,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token": token,
		"user":  map[string]string{"name": s.demoName, "email": s.demoEmail},
	})
}
