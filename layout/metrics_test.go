package layout

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEstimatorMultipliers(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	cases := []struct {
		family FontFamily
		want   float64
	}{
		{FontHandDrawn, 10 * 20 * 0.85},
		{FontMono, 10 * 20 * 0.68},
		{FontDisplay, 10 * 20 * 0.65},
		{FontSans, 10 * 20 * 0.62},
		{FontFamily(42), 10 * 20 * 0.62},
	}
	for _, tc := range cases {
		w, h := e.Measure("abcdefghij", 20, tc.family)
		require.InDelta(t, tc.want, w, 1e-9, tc.family.String())
		require.InDelta(t, 20*1.25, h, 1e-9)
	}
}

func TestEstimatorMultiline(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	w, h := e.Measure("ab\nabcd\nabc", 10, FontSans)
	require.InDelta(t, 4*10*0.62, w, 1e-9)
	require.InDelta(t, 3*10*1.25, h, 1e-9)
}

// 按字符（rune）而不是字节计数，西里尔字母与 ASCII 同宽。
func TestEstimatorCountsRunes(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	require.InDelta(t, e.Width("ДЕМО", 16, FontSans), e.Width("DEMO", 16, FontSans), 1e-9)
}

func TestEstimatorEmptyText(t *testing.T) {
	t.Parallel()

	w, h := DefaultEstimator().Measure("", 16, FontSans)
	require.Zero(t, w)
	require.InDelta(t, 20, h, 1e-9)
}

func TestEstimatorMonotonic(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	text := "short\na longer line"
	for i := 0; i < 20; i++ {
		w0, h0 := e.Measure(text, 16, FontHandDrawn)
		longer := text + "x"
		w1, _ := e.Measure(longer, 16, FontHandDrawn)
		require.GreaterOrEqual(t, w1, w0)

		more := text + "\n" + strings.Repeat("y", i)
		_, h1 := e.Measure(more, 16, FontHandDrawn)
		require.Greater(t, h1, h0)
		text = longer
	}
}

func TestNewEstimatorMergesCalibration(t *testing.T) {
	t.Parallel()

	e := NewEstimator(Calibration{Multipliers: map[FontFamily]float64{FontMono: 0.6}})
	cal := e.Calibration()
	require.InDelta(t, DefaultLineHeight, cal.LineHeight, 1e-9)
	require.InDelta(t, 0.6, cal.Multiplier(FontMono), 1e-9)
	require.InDelta(t, 0.85, cal.Multiplier(FontHandDrawn), 1e-9)
	require.InDelta(t, 0.62, cal.Multiplier(FontFamily(99)), 1e-9)

	// 零值估算器仍然可用
	var zero Estimator
	w, h := zero.Measure("abc", 10, FontSans)
	require.InDelta(t, 3*10*0.62, w, 1e-9)
	require.InDelta(t, 12.5, h, 1e-9)
}

func TestCenterInRectIsSymmetric(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	rects := []Bounds{
		{X: 0, Y: 0, Width: 130, Height: 35},
		{X: 810, Y: 40, Width: 130, Height: 35},
		{X: -20, Y: 7.5, Width: 12, Height: 8}, // 内容溢出
	}
	for _, rect := range rects {
		for _, text := range []string{"A", "ДЕМО", "5 мин", "a much longer label"} {
			x, y := CenterInRect(e, text, 16, FontSans, rect)
			w, h := e.Measure(text, 16, FontSans)
			left := x - rect.X
			right := rect.Width - left - w
			require.InDelta(t, left, right, 1e-9)
			top := y - rect.Y
			bottom := rect.Height - top - h
			require.InDelta(t, top, bottom, 1e-9)
		}
	}
}

func TestCenterInCircleAllowsOverflow(t *testing.T) {
	t.Parallel()

	e := DefaultEstimator()
	x, y := CenterInCircle(e, "12345678", 23, FontSans, Circle{X: 100, Y: 100, Diameter: 50})
	require.Less(t, x, 100.0)
	require.InDelta(t, 100+(50-23*1.25)/2, y, 1e-9)
	require.False(t, math.IsNaN(x))
}

func TestParseFontFamily(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]FontFamily{
		"":           FontSans,
		"Hand-Drawn": FontHandDrawn,
		"excalifont": FontHandDrawn,
		"display":    FontDisplay,
		"code":       FontMono,
	} {
		got, err := ParseFontFamily(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseFontFamily("serif")
	require.Error(t, err)
}
