package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nominadb/nomina-cli/internal/model"
)

func rec(rfc, nombre string, mut ...func(*model.EmployeeRecord)) model.EmployeeRecord {
	r := model.EmployeeRecord{RFCEmpleado: rfc, NombreEmpleado: nombre}
	for _, m := range mut {
		m(&r)
	}
	return r
}

func withFechaPago(v string) func(*model.EmployeeRecord) {
	return func(r *model.EmployeeRecord) { r.FechaPago = v }
}

func withFechaInicio(v string) func(*model.EmployeeRecord) {
	return func(r *model.EmployeeRecord) { r.FechaInicioRelLaboral = v }
}

func withPuesto(v string) func(*model.EmployeeRecord) {
	return func(r *model.EmployeeRecord) { r.Puesto = v }
}

func TestDedupe_MostRecentWins(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("XAXX010101000", "JUAN", withFechaPago("2024-01-15T09:00:00"), withPuesto("old")),
		rec("XAXX010101000", "JUAN", withFechaPago("2024-02-15T09:00:00"), withPuesto("new")),
		rec("YAYY020202000", "MARIA", withFechaPago("2024-01-01T00:00:00")),
	}

	out, dropped := d.Dedupe(records)
	require.Len(t, out, 2)
	assert.Zero(t, dropped)

	byRFC := map[string]model.EmployeeRecord{}
	for _, r := range out {
		byRFC[r.RFCEmpleado] = r
	}
	assert.Equal(t, "new", byRFC["XAXX010101000"].Puesto)
}

func TestDedupe_NoDateFieldKeepsFirst(t *testing.T) {
	// fecha_procesamiento empty too: nothing in the precedence list is
	// usable, so original order decides.
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("XAXX010101000", "JUAN", withPuesto("first")),
		rec("XAXX010101000", "JUAN", withPuesto("second")),
	}

	out, _ := d.Dedupe(records)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Puesto)
}

func TestDedupe_UnparsableDatesSortLast(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("XAXX010101000", "JUAN", withFechaPago("no es fecha"), withPuesto("garbled")),
		rec("XAXX010101000", "JUAN", withFechaPago("2023-05-01"), withPuesto("dated")),
	}

	out, _ := d.Dedupe(records)
	require.Len(t, out, 1)
	assert.Equal(t, "dated", out[0].Puesto)
}

func TestDedupe_ConfigurablePrecedence(t *testing.T) {
	// Employment-start precedence: the historical second variant.
	d := NewDeduplicator([]string{"fecha_inicio_rel_laboral"})

	records := []model.EmployeeRecord{
		rec("XAXX010101000", "JUAN", withFechaInicio("2015-01-01"), withFechaPago("2024-06-01"), withPuesto("veteran")),
		rec("XAXX010101000", "JUAN", withFechaInicio("2020-01-01"), withFechaPago("2024-01-01"), withPuesto("rehire")),
	}

	out, _ := d.Dedupe(records)
	require.Len(t, out, 1)
	// Sorted by start date, not payment date.
	assert.Equal(t, "rehire", out[0].Puesto)
}

func TestDedupe_PrecedenceSkipsAbsentFields(t *testing.T) {
	d := NewDeduplicator(nil)

	// No fecha_pago anywhere: the next tier with data decides.
	records := []model.EmployeeRecord{
		rec("XAXX010101000", "JUAN", withPuesto("older"), func(r *model.EmployeeRecord) { r.FechaPagoNomina = "2024-01-01" }),
		rec("XAXX010101000", "JUAN", withPuesto("newer"), func(r *model.EmployeeRecord) { r.FechaPagoNomina = "2024-02-01" }),
	}

	out, _ := d.Dedupe(records)
	require.Len(t, out, 1)
	assert.Equal(t, "newer", out[0].Puesto)
}

func TestDedupe_MissingRFCDropped(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("", "SIN RFC"),
		rec("XAXX010101000", "JUAN"),
	}

	out, dropped := d.Dedupe(records)
	require.Len(t, out, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "XAXX010101000", out[0].RFCEmpleado)
}

func TestDedupe_CaseSensitiveRFC(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("xaxx010101000", "JUAN"),
		rec("XAXX010101000", "JUAN"),
	}

	out, _ := d.Dedupe(records)
	assert.Len(t, out, 2)
}

func TestDedupe_Deterministic(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("A", "UNO", withFechaPago("2024-01-01"), withPuesto("p1")),
		rec("A", "UNO", withFechaPago("2024-01-01"), withPuesto("p2")),
		rec("B", "DOS", withFechaPago("2024-03-01")),
		rec("A", "UNO", withFechaPago("2024-02-01"), withPuesto("p3")),
	}

	first, _ := d.Dedupe(records)
	for i := 0; i < 10; i++ {
		again, _ := d.Dedupe(records)
		assert.Equal(t, first, again)
	}

	// Tie on equal dates resolves to original relative order.
	byRFC := map[string]model.EmployeeRecord{}
	for _, r := range first {
		byRFC[r.RFCEmpleado] = r
	}
	assert.Equal(t, "p3", byRFC["A"].Puesto)
}

func TestDedupe_Idempotent(t *testing.T) {
	d := NewDeduplicator(nil)

	records := []model.EmployeeRecord{
		rec("A", "UNO", withFechaPago("2024-01-01")),
		rec("A", "UNO", withFechaPago("2024-02-01")),
		rec("B", "DOS"),
	}

	once, _ := d.Dedupe(records)
	twice, _ := d.Dedupe(once)
	assert.Equal(t, once, twice)
}

func TestDedupe_Empty(t *testing.T) {
	d := NewDeduplicator(nil)
	out, dropped := d.Dedupe(nil)
	assert.Nil(t, out)
	assert.Zero(t, dropped)
}
