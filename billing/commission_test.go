package billing

import (
	"testing"
	"time"

	"gestion-peluqueria-backend/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommissionFor(t *testing.T) {
	rule := &CommissionRule{Professional: "A", Category: "Peluquería", Percentage: 30}
	line := ServiceLine{Service: "Corte de pelo", Category: "Peluquería", Professional: "A", Amount: 12000}

	assert.Equal(t, int64(3600), CommissionFor(line, rule))
	assert.Equal(t, int64(0), CommissionFor(line, nil))

	tests := []struct {
		name   string
		amount int64
		pct    int
		want   int64
	}{
		{"half rounds up", 5, 10, 1},         // 0.5
		{"below half rounds down", 4, 10, 0}, // 0.4
		{"odd peso", 12345, 15, 1852},        // 1851.75
		{"exact half", 1, 50, 1},             // 0.5
		{"zero percent", 10000, 0, 0},
		{"full", 10000, 100, 10000},
		{"zero amount", 0, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommissionFor(ServiceLine{Amount: tt.amount}, &CommissionRule{Percentage: tt.pct})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommissionBounded(t *testing.T) {
	for _, amount := range []int64{0, 1, 3, 999, 12000, 35001} {
		for pct := 0; pct <= 100; pct += 7 {
			c := CommissionFor(ServiceLine{Amount: amount}, &CommissionRule{Percentage: pct})
			assert.GreaterOrEqual(t, c, int64(0))
			assert.LessOrEqual(t, c, amount)
		}
	}
}

func TestCommissionRuleValidate(t *testing.T) {
	assert.NoError(t, CommissionRule{Professional: "A", Category: "Manicure", Percentage: 0}.Validate())
	assert.NoError(t, CommissionRule{Professional: "A", Category: "Manicure", Percentage: 100}.Validate())

	for _, r := range []CommissionRule{
		{Professional: "A", Category: "Manicure", Percentage: -1},
		{Professional: "A", Category: "Manicure", Percentage: 101},
		{Professional: "", Category: "Manicure", Percentage: 10},
		{Professional: "A", Category: " ", Percentage: 10},
	} {
		assert.True(t, apperr.IsKind(r.Validate(), apperr.KindValidation), "%+v", r)
	}
}

func TestNewRuleSet(t *testing.T) {
	rs, err := NewRuleSet([]CommissionRule{
		{Professional: "Ana", Category: "Peluquería", Percentage: 30},
		{Professional: "Ana", Category: "Coloración", Percentage: 25},
	})
	require.NoError(t, err)

	r := rs.Lookup("ana", "PELUQUERIA")
	require.NotNil(t, r)
	assert.Equal(t, 30, r.Percentage)
	assert.Nil(t, rs.Lookup("Ana", "Manicure"))
	assert.Nil(t, rs.ForLine(ServiceLine{Professional: "Ana"}), "uncategorized lines have no rule")

	_, err = NewRuleSet([]CommissionRule{
		{Professional: "Ana", Category: "Peluquería", Percentage: 30},
		{Professional: "ANA", Category: "peluqueria", Percentage: 40},
	})
	assert.True(t, apperr.IsKind(err, apperr.KindConflict))

	var nilSet *RuleSet
	assert.Nil(t, nilSet.Lookup("Ana", "Peluquería"))
}

func TestStampCommissions(t *testing.T) {
	rs, err := NewRuleSet([]CommissionRule{{Professional: "A", Category: "Peluquería", Percentage: 30}})
	require.NoError(t, err)

	lines := []ServiceLine{
		{Service: "Corte", Category: "Peluquería", Professional: "A", Amount: 12000},
		{Service: "Uñas", Category: "Manicure", Professional: "A", Amount: 8000, Commission: 99},
	}
	StampCommissions(lines, rs)

	assert.Equal(t, int64(3600), lines[0].Commission)
	assert.Equal(t, int64(0), lines[1].Commission)
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 10, 0, 0, 0, time.UTC)
}

func sampleRecords() []Record {
	return []Record{
		{
			Folio: "F-1", Client: "Ana", Date: day(1),
			Lines: []ServiceLine{
				{Service: "Corte", Category: "Peluquería", Professional: "A", Amount: 12000},
				{Service: "Coloración", Category: "Coloración", Professional: "B", Amount: 35000,
					Materials: []Material{{Name: "tinte", Amount: 5000}}},
			},
		},
		{
			Folio: "F-2", Client: "Luis", Date: day(2),
			Lines: []ServiceLine{
				{Service: "Corte", Category: "Peluquería", Professional: "A", Amount: 12000},
				{Service: "Manicure", Category: "Manicure", Professional: "C", Amount: 24000},
			},
		},
		{
			Folio: "F-3", Client: "Eva", Date: day(10),
			Lines: []ServiceLine{
				{Service: "Peinado", Category: "Peluquería", Professional: "C", Amount: 15000},
			},
		},
	}
}

func TestSummarizeByProfessional(t *testing.T) {
	rs, err := NewRuleSet([]CommissionRule{
		{Professional: "A", Category: "Peluquería", Percentage: 30},
		{Professional: "C", Category: "Manicure", Percentage: 40},
	})
	require.NoError(t, err)

	got := SummarizeByProfessional(sampleRecords(), rs, nil)

	assert.Equal(t, []ProfessionalSummary{
		{Professional: "C", Count: 2, TotalAmount: 39000, TotalCommission: 9600},
		{Professional: "B", Count: 1, TotalAmount: 35000, TotalCommission: 0},
		{Professional: "A", Count: 2, TotalAmount: 24000, TotalCommission: 7200},
	}, got)

	t.Run("date range", func(t *testing.T) {
		from, to := day(1), day(2)
		got := SummarizeByProfessional(sampleRecords(), rs, &DateRange{From: &from, To: &to})
		require.Len(t, got, 3)
		assert.Equal(t, "B", got[0].Professional)
		assert.Equal(t, "A", got[1].Professional)
		assert.Equal(t, ProfessionalSummary{Professional: "C", Count: 1, TotalAmount: 24000, TotalCommission: 9600}, got[2])
	})

	t.Run("ties keep input order", func(t *testing.T) {
		recs := []Record{{Date: day(1), Lines: []ServiceLine{
			{Service: "s", Professional: "X", Amount: 100},
			{Service: "s", Professional: "Y", Amount: 100},
		}}}
		got := SummarizeByProfessional(recs, nil, nil)
		assert.Equal(t, "X", got[0].Professional)
		assert.Equal(t, "Y", got[1].Professional)
	})
	t.Run("spellings of one professional share a row", func(t *testing.T) {
		rs, err := NewRuleSet([]CommissionRule{{Professional: "Ana María", Category: "Color", Percentage: 10}})
		require.NoError(t, err)
		recs := []Record{{Date: day(1), Lines: []ServiceLine{
			{Service: "s", Category: "Color", Professional: "Ana María", Amount: 1000},
			{Service: "s", Category: "color", Professional: "ana maria", Amount: 2000},
			{Service: "s", Category: "Color", Professional: " ANA MARÍA", Amount: 3000},
		}}}
		got := SummarizeByProfessional(recs, rs, nil)
		assert.Equal(t, []ProfessionalSummary{
			{Professional: "Ana María", Count: 3, TotalAmount: 6000, TotalCommission: 600},
		}, got)
	})
}

func TestSummarizeByService(t *testing.T) {
	got := SummarizeByService(sampleRecords(), nil)

	assert.Equal(t, []ServiceSummary{
		{Service: "Coloración", Count: 1, TotalAmount: 35000},
		{Service: "Corte", Count: 2, TotalAmount: 24000},
		{Service: "Manicure", Count: 1, TotalAmount: 24000},
		{Service: "Peinado", Count: 1, TotalAmount: 15000},
	}, got)

	from := day(5)
	got = SummarizeByService(sampleRecords(), &DateRange{From: &from})
	assert.Equal(t, []ServiceSummary{{Service: "Peinado", Count: 1, TotalAmount: 15000}}, got)
}

func TestCommissionDetail(t *testing.T) {
	rs, err := NewRuleSet([]CommissionRule{{Professional: "A", Category: "Peluquería", Percentage: 30}})
	require.NoError(t, err)

	rows := CommissionDetail(sampleRecords(), rs, nil)
	require.Len(t, rows, 5)
	assert.Equal(t, CommissionRow{
		Date: day(1), Folio: "F-1", Client: "Ana", Service: "Corte", Professional: "A",
		Amount: 12000, Commission: 3600,
	}, rows[0])
	assert.Equal(t, int64(0), rows[1].Commission)
}

func TestRecordValidate(t *testing.T) {
	rec := sampleRecords()[0]
	assert.Equal(t, int64(52000), rec.Total())

	rec.Payments = []Payment{{Kind: PaymentCash, Amount: 50000}}
	assert.True(t, apperr.IsKind(rec.Validate(), apperr.KindValidation))

	rec.Payments = AppendSuggestedPayment(rec.Payments, rec.Total())
	assert.NoError(t, rec.Validate())
}

func TestCloseDay(t *testing.T) {
	recs := sampleRecords()[:2]
	recs[0].Payments = []Payment{{Kind: PaymentCash, Amount: 30000}, {Kind: PaymentCard, Amount: 22000, OperationReference: "9"}}
	recs[1].Payments = []Payment{{Kind: PaymentTransfer, Amount: 36000}}

	cc := CloseDay(recs)

	assert.Equal(t, 2, cc.Records)
	assert.Equal(t, int64(88000), cc.Total)
	assert.Equal(t, []Amount{
		{Label: "Corte", Amount: 24000},
		{Label: "Coloración", Amount: 35000},
		{Label: "Manicure", Amount: 24000},
	}, cc.ByService)
	assert.Equal(t, []Amount{
		{Label: "Cash", Amount: 30000},
		{Label: "Transfer", Amount: 36000},
		{Label: "Card", Amount: 22000},
	}, cc.ByPayment)
}
