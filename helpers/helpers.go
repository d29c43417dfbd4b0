package helpers

import (
	"image/color"
	"math/big"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mdp/qrterminal/v3"
	"github.com/muesli/gamut"
)

// etherDecimals is the fixed power-of-ten between wei and ether.
const etherDecimals = 18

// ShortenAddr shortens an Ethereum address for display
func ShortenAddr(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// FormatEther renders a wei amount as a decimal ether string. The fraction
// keeps at least one digit and drops trailing zeros, so 10^18 is "1.0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	v := new(big.Int).Abs(wei)
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)
	whole, frac := new(big.Int).QuoRem(v, unit, new(big.Int))

	fs := frac.String()
	if len(fs) < etherDecimals {
		fs = strings.Repeat("0", etherDecimals-len(fs)) + fs
	}
	fs = strings.TrimRight(fs, "0")
	if fs == "" {
		fs = "0"
	}

	out := whole.String() + "." + fs
	if wei.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// QRCode renders text as a half-block terminal QR code
func QRCode(text string) string {
	var b strings.Builder
	qrterminal.GenerateHalfBlock(text, qrterminal.L, &b)
	return b.String()
}

// FadeString creates a gradient colored string
func FadeString(s string, firstColor string, lastColor string) string {
	n := len([]rune(s))
	if n == 0 {
		return ""
	}
	blends := gamut.Blends(lipgloss.Color(firstColor), lipgloss.Color(lastColor), n)
	return rainbow(lipgloss.NewStyle(), s, blends)
}

func rainbow(baseStyle lipgloss.Style, str string, colors []color.Color) string {
	var b strings.Builder
	i := 0
	for _, c := range str {
		col, _ := colorful.MakeColor(colors[i%len(colors)])
		b.WriteString(baseStyle.Foreground(lipgloss.Color(col.Hex())).Render(string(c)))
		i++
	}
	return b.String()
}

// Max returns the maximum of two integers
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min returns the minimum of two integers
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
