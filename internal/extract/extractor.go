package extract

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/nominadb/nomina-cli/internal/catalog"
	"github.com/nominadb/nomina-cli/internal/model"
)

// SAT schema namespaces. Receipts in circulation mix CFDI 3.3 and 4.0
// envelopes around the same nomina 1.2 complement.
const (
	nsCFDI4    = "http://www.sat.gob.mx/cfd/4"
	nsCFDI3    = "http://www.sat.gob.mx/cfd/3"
	nsTimbre   = "http://www.sat.gob.mx/TimbreFiscalDigital"
	nsNomina12 = "http://www.sat.gob.mx/nomina12"
)

// envelopeNS is the ordered list of envelope namespace variants tried when
// locating Receptor/Emisor. Newest first.
var envelopeNS = []string{nsCFDI4, nsCFDI3}

// RejectReason classifies why a source produced no record.
type RejectReason string

const (
	RejectMalformed       RejectReason = "malformed"
	RejectNoPayroll       RejectReason = "no-payroll-section"
	RejectMissingRequired RejectReason = "missing-required-fields"
)

// RejectError reports a per-source rejection. Rejections are expected batch
// events, not failures: callers count them and move on.
type RejectError struct {
	Reason RejectReason
	Err    error
}

func (e *RejectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract: rejected (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("extract: rejected (%s)", e.Reason)
}

func (e *RejectError) Unwrap() error { return e.Err }

// Reject builds a RejectError.
func Reject(reason RejectReason, err error) *RejectError {
	return &RejectError{Reason: reason, Err: err}
}

// Extractor turns one CFDI payroll receipt into an EmployeeRecord. The
// catalog store is injected at construction and only read afterwards, so a
// single Extractor is safe for concurrent use across sources.
type Extractor struct {
	store *catalog.Store
	now   func() time.Time
}

// New builds an Extractor over the given catalog store.
func New(store *catalog.Store) *Extractor {
	return &Extractor{store: store, now: time.Now}
}

// nominaLocators is the ordered list of structural lookup paths tried when
// locating the payroll complement. First match wins.
var nominaLocators = []func(root *element) *element{
	// CFDI 4.0 envelope: Comprobante > Complemento > nomina12:Nomina.
	func(root *element) *element {
		if c := root.find(nsCFDI4, "Complemento"); c != nil {
			return c.find(nsNomina12, "Nomina")
		}
		return nil
	},
	// CFDI 3.3 envelope.
	func(root *element) *element {
		if c := root.find(nsCFDI3, "Complemento"); c != nil {
			return c.find(nsNomina12, "Nomina")
		}
		return nil
	},
	// Correctly-namespaced complement under a non-standard envelope.
	func(root *element) *element {
		return root.find(nsNomina12, "Nomina")
	},
	// Last resort: any element named Nomina, namespace ignored.
	func(root *element) *element {
		return root.findLocal("Nomina")
	},
}

// Extract parses xmlText and produces one employee record, or a *RejectError
// describing why the source was discarded. sourcePath is recorded as
// provenance only; the content is never re-read from disk.
func (e *Extractor) Extract(xmlText, sourcePath string) (*model.EmployeeRecord, error) {
	root, err := parseDocument(xmlText)
	if err != nil {
		return nil, Reject(RejectMalformed, err)
	}

	nomina := locateNomina(root)
	if nomina == nil {
		return nil, Reject(RejectNoPayroll, nil)
	}

	rec := &model.EmployeeRecord{}

	// Comprobante attributes live on the document root.
	rec.FechaPago = root.attr("Fecha")
	rec.Folio = root.attr("Folio")

	if receptor := findEnvelope(root, "Receptor"); receptor != nil {
		rec.RFCEmpleado = receptor.attr("Rfc")
		rec.NombreEmpleado = receptor.attr("Nombre")
		rec.UsoCFDI = receptor.attr("UsoCFDI")
	}
	if emisor := findEnvelope(root, "Emisor"); emisor != nil {
		rec.RFCEmpleador = emisor.attr("Rfc")
		rec.NombreEmpleador = emisor.attr("Nombre")
		rec.RegimenFiscalEmpleador = emisor.attr("RegimenFiscal")
	}
	if timbre := root.find(nsTimbre, "TimbreFiscalDigital"); timbre != nil {
		rec.FechaTimbrado = timbre.attr("FechaTimbrado")
		rec.UUID = timbre.attr("UUID")
	}

	e.fillNomina(rec, nomina)

	rec.StampProcessed(e.now(), sourcePath, filepath.Base(sourcePath))

	if !rec.Valid() {
		return nil, Reject(RejectMissingRequired, nil)
	}
	return rec, nil
}

// locateNomina tries each structural locator in order.
func locateNomina(root *element) *element {
	for _, locate := range nominaLocators {
		if n := locate(root); n != nil {
			return n
		}
	}
	return nil
}

// findEnvelope looks up a direct CFDI child across envelope namespace
// versions, newest first.
func findEnvelope(root *element, local string) *element {
	for _, ns := range envelopeNS {
		if el := root.find(ns, local); el != nil {
			return el
		}
	}
	return nil
}

// fillNomina copies the complement and employee attributes. Every read is
// optional: absent attributes stay empty and never abort the record.
func (e *Extractor) fillNomina(rec *model.EmployeeRecord, nomina *element) {
	rec.VersionNomina = nomina.attr("Version")
	rec.TipoNomina = nomina.attr("TipoNomina")
	rec.FechaPagoNomina = nomina.attr("FechaPago")
	rec.FechaInicialPago = nomina.attr("FechaInicialPago")
	rec.FechaFinalPago = nomina.attr("FechaFinalPago")
	rec.NumDiasPagados = nomina.attr("NumDiasPagados")
	rec.TotalPercepciones = nomina.attr("TotalPercepciones")
	rec.TotalDeducciones = nomina.attr("TotalDeducciones")
	rec.TotalOtrasDeducciones = nomina.attr("TotalOtrasDeducciones")

	// RegistroPatronal lives on the complement's own Emisor, not the
	// envelope one.
	if emisor := nomina.find(nsNomina12, "Emisor"); emisor != nil {
		rec.RegistroPatronal = emisor.attr("RegistroPatronal")
	} else if emisor := nomina.findLocal("Emisor"); emisor != nil {
		rec.RegistroPatronal = emisor.attr("RegistroPatronal")
	}

	empleado := locateEmpleado(nomina)
	if empleado == nil {
		return
	}

	rec.CURP = empleado.attr("Curp")
	rec.NumSeguridadSocial = empleado.attr("NumSeguridadSocial")
	rec.FechaInicioRelLaboral = empleado.attr("FechaInicioRelLaboral")
	rec.Antiguedad = empleado.attr("Antigüedad")
	if rec.Antiguedad == "" {
		rec.Antiguedad = empleado.attr("Antiguedad")
	}
	rec.TipoContrato = empleado.attr("TipoContrato")
	rec.Sindicalizado = empleado.attr("Sindicalizado")
	rec.TipoJornada = empleado.attr("TipoJornada")
	rec.TipoRegimen = empleado.attr("TipoRegimen")
	rec.NumEmpleado = empleado.attr("NumEmpleado")
	rec.Departamento = empleado.attr("Departamento")
	rec.Puesto = empleado.attr("Puesto")
	rec.RiesgoPuesto = empleado.attr("RiesgoPuesto")
	rec.PeriodicidadPago = empleado.attr("PeriodicidadPago")
	rec.Banco = empleado.attr("Banco")
	rec.CuentaBancaria = empleado.attr("CuentaBancaria")
	rec.SalarioBaseCotApor = empleado.attr("SalarioBaseCotApor")
	rec.SalarioDiarioIntegrado = empleado.attr("SalarioDiarioIntegrado")
	rec.ClaveEntFed = empleado.attr("ClaveEntFed")

	rec.TipoContratoDesc = e.describe(catalog.CatTipoContrato, rec.TipoContrato)
	rec.TipoJornadaDesc = e.describe(catalog.CatTipoJornada, rec.TipoJornada)
	rec.TipoRegimenDesc = e.describe(catalog.CatTipoRegimen, rec.TipoRegimen)
	rec.RiesgoPuestoDesc = e.describe(catalog.CatRiesgoPuesto, rec.RiesgoPuesto)
	rec.PeriodicidadPagoDesc = e.describe(catalog.CatPeriodicidadPago, rec.PeriodicidadPago)
}

// locateEmpleado finds the employee sub-element. Nomina 1.2 names it
// Receptor; pre-1.2 complements used Empleado.
func locateEmpleado(nomina *element) *element {
	if el := nomina.find(nsNomina12, "Receptor"); el != nil {
		return el
	}
	if el := nomina.findLocal("Receptor"); el != nil {
		return el
	}
	return nomina.findLocal("Empleado")
}

// describe resolves a coded field: loaded catalog first, manual tables
// second, annotated raw code last. Empty codes stay empty.
func (e *Extractor) describe(catalogName, code string) string {
	if code == "" {
		return ""
	}
	return e.store.GetDescription(catalogName, code)
}
