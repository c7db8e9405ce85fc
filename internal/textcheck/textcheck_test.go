package textcheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gotier/internal/textcheck"
)

func TestFilterAcceptsPlainText(t *testing.T) {
	f := textcheck.New()
	assert.NoError(t, f.Validate("Great screen & fast shipping"))
	assert.NoError(t, f.Validate("Scrap metal chassis, 5 < 6"))
}

func TestFilterRejectsMarkup(t *testing.T) {
	f := textcheck.New()
	assert.ErrorIs(t, f.Validate(`nice <script>alert(1)</script>`), textcheck.ErrMarkup)
	assert.ErrorIs(t, f.Validate(`<b>bold</b> claim here`), textcheck.ErrMarkup)
}

func TestFilterFoldsCaseAndWidth(t *testing.T) {
	f := textcheck.New("lemon")
	assert.ErrorIs(t, f.Validate("This is SHIT quality"), textcheck.ErrBlocked)
	// fullwidth letters normalize to ASCII under NFKC
	assert.ErrorIs(t, f.Validate("ｓｈｉｔ product"), textcheck.ErrBlocked)
	assert.ErrorIs(t, f.Validate("A real Lemon, sadly"), textcheck.ErrBlocked)
}
