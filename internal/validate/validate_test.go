package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	id, ok := ID(" 42 ")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc", "1.5", "9999999999999999999"} {
		_, ok := ID(bad)
		assert.False(t, ok, bad)
	}
}

func TestIDList(t *testing.T) {
	ids, ok := IDList("1, 2,3")
	assert.True(t, ok)
	assert.Equal(t, []int64{1, 2, 3}, ids)

	_, ok = IDList("1,x,3")
	assert.False(t, ok)
	_, ok = IDList("")
	assert.False(t, ok)
}

func TestOrderID(t *testing.T) {
	id, ok := OrderID("6F9619FF-8B86-D011-B42D-00C04FC964FF")
	assert.True(t, ok)
	assert.Equal(t, "6f9619ff-8b86-d011-b42d-00c04fc964ff", id)

	for _, bad := range []string{
		"not-a-uuid",
		"6f9619ff8b86d011b42d00c04fc964ff",
		"{6f9619ff-8b86-d011-b42d-00c04fc964f}",
		"6f9619ff-8b86-d011-b42d-00c04fc964fg",
		"6f9619ff_8b86-d011-b42d-00c04fc964ff",
	} {
		_, ok = OrderID(bad)
		assert.False(t, ok, bad)
	}
}

func TestTerms(t *testing.T) {
	terms, ok := Terms("lenovo, ,gaming")
	assert.True(t, ok)
	assert.Equal(t, []string{"lenovo", "gaming"}, terms)

	_, ok = Terms(" , ")
	assert.False(t, ok)
	_, ok = Terms("drop;table")
	assert.False(t, ok)
}

func TestRatingHalfSteps(t *testing.T) {
	for _, v := range []float64{1, 1.5, 3, 4.5, 5} {
		assert.True(t, Rating(v), v)
	}
	for _, v := range []float64{0.5, 1.25, 5.5, 0} {
		assert.False(t, Rating(v), v)
	}
}

func TestContentWindow(t *testing.T) {
	s, ok := Content("  Works great, fast.  ")
	assert.True(t, ok)
	assert.Equal(t, "Works great, fast.", s)

	_, ok = Content("short")
	assert.False(t, ok)
	_, ok = Content("this review is definitely much longer than forty five chars")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.True(t, Password("Passw0rd!"))
	assert.False(t, Password("password"))
	assert.False(t, Password("Sh0rt!"))
}

func TestEmailAndBirthdate(t *testing.T) {
	e, ok := Email("  carol@gotier.test ")
	assert.True(t, ok)
	assert.Equal(t, "carol@gotier.test", e)
	for _, bad := range []string{"", "carol", "carol@", "carol@host", "a b@host.com"} {
		_, ok := Email(bad)
		assert.False(t, ok, bad)
	}

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d, ok := Birthdate("2000-02-29", now)
	assert.True(t, ok)
	assert.Equal(t, 2000, d.Year())
	for _, bad := range []string{"", "01/02/2000", "2000-13-01", "2027-01-01"} {
		_, ok := Birthdate(bad, now)
		assert.False(t, ok, bad)
	}
}
