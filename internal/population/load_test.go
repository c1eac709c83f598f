package population

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcsv "popreport/internal/parser/csv"
)

func load(t *testing.T, in string) ([]Record, Stats, error) {
	t.Helper()
	return Load(context.Background(), strings.NewReader(in))
}

func TestLoad_Scenario(t *testing.T) {
	in := "Country Name,Year,Population\n" +
		"Ukraine,1990,52000000\n" +
		"Ukraine,1991,51900000\n" +
		"Ukraine,2019,49200000\n" +
		"Poland,2000,38000000\n"

	got, st, err := load(t, in)
	require.NoError(t, err)

	assert.Equal(t, []Record{{1991, 51900000}, {2019, 49200000}}, got)
	assert.Equal(t, Stats{Read: 4, Kept: 2, Skipped: 2}, st)
}

func TestLoad_FilterBoundaries(t *testing.T) {
	in := "Country Name,Year,Population\n" +
		"Ukraine,1990,1\n" +
		"Ukraine,1991,2\n" +
		"Ukraine,2019,3\n" +
		"Ukraine,2020,4\n" +
		"ukraine,2000,5\n" +
		"Ukraine ,2000,6\n"

	got, _, err := load(t, in)
	require.NoError(t, err)
	assert.Equal(t, []Record{{1991, 2}, {2019, 3}}, got)
}

func TestLoad_ColumnOrderAndExtras(t *testing.T) {
	in := "Population,Region,Year,Country Name\n" +
		"51000000,Europe,1995,Ukraine\n"

	got, _, err := load(t, in)
	require.NoError(t, err)
	assert.Equal(t, []Record{{1995, 51000000}}, got)
}

func TestLoad_PopulationParsing(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"52000000", 52000000},
		{"51999999.9", 51999999},
		{"5.2e7", 52000000},
		{" 48000000 ", 48000000},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, _, err := load(t, "Country Name,Year,Population\nUkraine,2000,\""+tc.in+"\"\n")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0].Population)
		})
	}
}

func TestLoad_MalformedRows(t *testing.T) {
	tests := []struct {
		name  string
		row   string
		field string
		line  int
	}{
		{"year not integer", "Ukraine,19x1,100", ColYear, 2},
		{"year fractional", "Ukraine,1991.0,100", ColYear, 2},
		{"population text", "Ukraine,1991,many", ColPopulation, 2},
		{"population NaN", "Ukraine,1991,NaN", ColPopulation, 2},
		{"population Inf", "Ukraine,1991,+Inf", ColPopulation, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, _, err := load(t, "Country Name,Year,Population\n"+tc.row+"\n")
			require.Error(t, err)
			assert.Nil(t, got)

			var mre *MalformedRowError
			require.True(t, errors.As(err, &mre), "want *MalformedRowError, got %T: %v", err, err)
			assert.Equal(t, tc.field, mre.Field)
			assert.Equal(t, tc.line, mre.Line)
		})
	}
}

func TestLoad_IgnoresNumbersOnOtherCountries(t *testing.T) {
	// Year is only parsed for the filtered country; population only for kept rows.
	in := "Country Name,Year,Population\n" +
		"Poland,n/a,n/a\n" +
		"Ukraine,1985,n/a\n" +
		"Ukraine,2001,48900000\n"

	got, st, err := load(t, in)
	require.NoError(t, err)
	assert.Equal(t, []Record{{2001, 48900000}}, got)
	assert.Equal(t, 2, st.Skipped)
}

func TestLoad_RaggedRows(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Record
	}{
		{
			name: "short foreign row",
			in:   "Country Name,Year,Population\nPoland,2000\nUkraine,1991,51900000\n",
			want: []Record{{1991, 51900000}},
		},
		{
			name: "wide foreign row",
			in:   "Country Name,Year,Population\nPoland,2000,38000000,est.\nUkraine,1991,51900000\n",
			want: []Record{{1991, 51900000}},
		},
		{
			name: "wide kept row",
			in:   "Country Name,Year,Population\nUkraine,1991,51900000,footnote\n",
			want: []Record{{1991, 51900000}},
		},
		{
			name: "short row out of range",
			in:   "Country Name,Year,Population\nUkraine,1985\nUkraine,1991,51900000\n",
			want: []Record{{1991, 51900000}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, st, err := load(t, tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want), st.Kept)
			assert.Equal(t, st.Read-st.Kept, st.Skipped)
		})
	}
}

func TestLoad_ShortKeptRow(t *testing.T) {
	tests := []struct {
		in    string
		field string
	}{
		{"Country Name,Year,Population\nUkraine\n", ColYear},
		{"Country Name,Year,Population\nUkraine,1991\n", ColPopulation},
	}
	for _, tc := range tests {
		_, _, err := load(t, tc.in)
		var mre *MalformedRowError
		require.True(t, errors.As(err, &mre), "want *MalformedRowError, got %T: %v", err, err)
		assert.Equal(t, tc.field, mre.Field)
		assert.Equal(t, 2, mre.Line)
	}
}

func TestLoad_CSVErrors(t *testing.T) {
	_, _, err := load(t, "Country Name,Year,Population\nUkraine,1991,\"51900000\n")
	var pe *csv.ParseError
	require.True(t, errors.As(err, &pe), "want *csv.ParseError, got %v", err)
	assert.ErrorIs(t, err, csv.ErrQuote)

	_, _, err = load(t, "Country,Year,Population\nUkraine,1991,1\n")
	assert.ErrorIs(t, err, pcsv.ErrMissingColumn)
}

func TestLoad_EmptyInput(t *testing.T) {
	got, st, err := load(t, "")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, Stats{}, st)
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, strings.NewReader("Country Name,Year,Population\nUkraine,1991,1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestLoad_FilterInvariant feeds randomly generated rows through Load and
// checks that every kept record belongs to the filtered country and period.
func TestLoad_FilterInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	countries := []string{"Ukraine", "Poland", "Moldova", "UKRAINE"}

	var b strings.Builder
	b.WriteString("Country Name,Year,Population\n")
	want := 0
	for i := 0; i < 2000; i++ {
		c := countries[rng.Intn(len(countries))]
		y := 1950 + rng.Intn(100)
		fmt.Fprintf(&b, "%s,%d,%d\n", c, y, rng.Int63n(60_000_000))
		if c == Country && y >= FirstYear && y <= LastYear {
			want++
		}
	}

	got, st, err := load(t, b.String())
	require.NoError(t, err)
	assert.Len(t, got, want)
	assert.Equal(t, want, st.Kept)
	assert.Equal(t, 2000, st.Read)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Year, FirstYear)
		assert.LessOrEqual(t, r.Year, LastYear)
	}
}
