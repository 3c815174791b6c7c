package main

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"whaletrack-server/uploads"
)

func homeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "whaletrack backend running",
	})
}

func loginHandler(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", nil)
}

func loginPostHandler(c echo.Context) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	var user User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return c.String(http.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return c.String(http.StatusUnauthorized, "Invalid credentials")
	}

	session, err := store.Get(c.Request(), "session")
	if err != nil {
		return c.String(http.StatusInternalServerError, "Unable to retrieve session")
	}
	session.Values["user_id"] = user.ID
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return c.String(http.StatusInternalServerError, "Unable to save session")
	}

	return c.Redirect(http.StatusSeeOther, "/uploads")
}

func logoutHandler(c echo.Context) error {
	session, _ := store.Get(c.Request(), "session")
	delete(session.Values, "user_id")
	session.Save(c.Request(), c.Response().Writer)
	return c.Redirect(http.StatusSeeOther, "/login")
}

type uploadRow struct {
	ID       uint
	Name     string
	Original string
	Status   uploads.Status
	Size     string
	Length   string
	Result   string
	CSV      string
}

// uploadsHandler renders the debug listing of everything that came
// through /track.
func uploadsHandler(c echo.Context) error {
	var all []uploads.Upload
	if err := db.Order("created_at DESC").Find(&all).Error; err != nil {
		return c.String(http.StatusInternalServerError, "Error listing uploads")
	}

	rows := make([]uploadRow, 0, len(all))
	for _, u := range all {
		rows = append(rows, uploadRow{
			ID:       u.ID,
			Name:     u.StorageName,
			Original: u.OriginalName,
			Status:   u.Status,
			Size:     humanSize(u.Size),
			Length:   humanLength(u.Duration),
			Result:   u.ResultName,
			CSV:      u.CSVName,
		})
	}

	return c.Render(http.StatusOK, "uploads.html", rows)
}

func humanLength(s float64) string {
	ss := int64(s)
	mm, ss := ss/60, ss%60
	hh, mm := mm/60, mm%60

	return fmt.Sprintf("%d:%02d:%02d", hh, mm, ss)
}

func humanSize(bytes int64) string {
	const (
		KiB = 1024
		MiB = 1024 * KiB
		GiB = 1024 * MiB
	)

	if bytes >= GiB {
		return fmt.Sprintf("%.1f GiB", float64(bytes)/float64(GiB))
	} else if bytes >= MiB {
		return fmt.Sprintf("%.1f MiB", float64(bytes)/float64(MiB))
	} else if bytes >= KiB {
		return fmt.Sprintf("%.1f KiB", float64(bytes)/float64(KiB))
	}
	return fmt.Sprintf("%d bytes", bytes)
}
