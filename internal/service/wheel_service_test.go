package service

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func bindPrizeInput(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var in PrizeInput
	return c.ShouldBindJSON(&in)
}

func TestPrizeInputWeight(t *testing.T) {
	// a zero-weight entry is a valid configuration (never drawn, but
	// can serve as the designated fallback)
	if err := bindPrizeInput(t, `{"name":"Better luck next time","kind":"NO_PRIZE","weight":0}`); err != nil {
		t.Fatalf("zero weight should bind: %v", err)
	}
	if err := bindPrizeInput(t, `{"name":"Nope","kind":"NO_PRIZE","weight":-1}`); err == nil {
		t.Fatalf("negative weight must be rejected")
	}
	if err := bindPrizeInput(t, `{"name":"10 percent off","kind":"DISCOUNT_PERCENT","value":10,"weight":30}`); err != nil {
		t.Fatalf("positive weight should bind: %v", err)
	}
}
