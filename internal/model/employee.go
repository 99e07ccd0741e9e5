package model

import "time"

// ProcessingTimeLayout is the layout used for fecha_procesamiento stamps.
// Matches the format emitted by the legacy extractor so historical exports
// stay comparable.
const ProcessingTimeLayout = "2006-01-02 15:04:05"

// EmployeeRecord is one flattened employee row extracted from a single CFDI
// payroll receipt. All values are carried as the literal attribute strings
// from the source document; missing attributes are empty strings.
type EmployeeRecord struct {
	// Receptor (employee identity).
	RFCEmpleado    string `json:"rfc_empleado"`
	NombreEmpleado string `json:"nombre_empleado"`
	UsoCFDI        string `json:"uso_cfdi_empleado"`

	// Personal identifiers.
	CURP               string `json:"curp"`
	NumSeguridadSocial string `json:"num_seguridad_social"`
	NumEmpleado        string `json:"num_empleado"`

	// Employment.
	FechaInicioRelLaboral string `json:"fecha_inicio_rel_laboral"`
	Antiguedad            string `json:"antiguedad"`
	TipoContrato          string `json:"tipo_contrato"`
	TipoContratoDesc      string `json:"tipo_contrato_desc"`
	Sindicalizado         string `json:"sindicalizado"`
	TipoJornada           string `json:"tipo_jornada"`
	TipoJornadaDesc       string `json:"tipo_jornada_desc"`
	TipoRegimen           string `json:"tipo_regimen"`
	TipoRegimenDesc       string `json:"tipo_regimen_desc"`
	Departamento          string `json:"departamento"`
	Puesto                string `json:"puesto"`
	RiesgoPuesto          string `json:"riesgo_puesto"`
	RiesgoPuestoDesc      string `json:"riesgo_puesto_desc"`
	PeriodicidadPago      string `json:"periodicidad_pago"`
	PeriodicidadPagoDesc  string `json:"periodicidad_pago_desc"`
	Banco                 string `json:"banco"`
	CuentaBancaria        string `json:"cuenta_bancaria"`
	ClaveEntFed           string `json:"clave_ent_fed"`

	// Compensation (numeric-as-text, no arithmetic performed).
	SalarioBaseCotApor     string `json:"salario_base_cot_apor"`
	SalarioDiarioIntegrado string `json:"salario_diario_integrado"`

	// Emisor (employer).
	RFCEmpleador           string `json:"rfc_empleador"`
	NombreEmpleador        string `json:"nombre_empleador"`
	RegistroPatronal       string `json:"registro_patronal"`
	RegimenFiscalEmpleador string `json:"regimen_fiscal_empleador"`

	// Comprobante / nomina document data.
	VersionNomina         string `json:"version_nomina"`
	TipoNomina            string `json:"tipo_nomina"`
	Folio                 string `json:"folio"`
	FechaPago             string `json:"fecha_pago"`
	FechaPagoNomina       string `json:"fecha_pago_nomina"`
	FechaInicialPago      string `json:"fecha_inicial_pago"`
	FechaFinalPago        string `json:"fecha_final_pago"`
	NumDiasPagados        string `json:"num_dias_pagados"`
	TotalPercepciones     string `json:"total_percepciones"`
	TotalDeducciones      string `json:"total_deducciones"`
	TotalOtrasDeducciones string `json:"total_otras_deducciones"`

	// TimbreFiscalDigital.
	FechaTimbrado string `json:"fecha_timbrado"`
	UUID          string `json:"uuid"`

	// Provenance, assigned at extraction time.
	ArchivoOrigen      string `json:"archivo_origen"`
	RutaArchivo        string `json:"ruta_archivo"`
	FechaProcesamiento string `json:"fecha_procesamiento"`
}

// Valid reports whether the record carries the required identity fields.
// Records failing this check never reach the final table.
func (r *EmployeeRecord) Valid() bool {
	return r.RFCEmpleado != "" && r.NombreEmpleado != ""
}

// StampProcessed sets the processing timestamp and source provenance.
func (r *EmployeeRecord) StampProcessed(now time.Time, path, base string) {
	r.FechaProcesamiento = now.Format(ProcessingTimeLayout)
	r.RutaArchivo = path
	r.ArchivoOrigen = base
}

// Column is one named export column bound to a record accessor.
type Column struct {
	Key    string
	Header string
	Value  func(*EmployeeRecord) string
}

// Columns returns the full ordered export column set. Export layout files
// select and reorder by Key; unknown keys are ignored there, not here.
func Columns() []Column {
	return []Column{
		{"rfc_empleado", "RFC Empleado", func(r *EmployeeRecord) string { return r.RFCEmpleado }},
		{"nombre_empleado", "Nombre Empleado", func(r *EmployeeRecord) string { return r.NombreEmpleado }},
		{"curp", "CURP", func(r *EmployeeRecord) string { return r.CURP }},
		{"num_seguridad_social", "NSS", func(r *EmployeeRecord) string { return r.NumSeguridadSocial }},
		{"num_empleado", "Num Empleado", func(r *EmployeeRecord) string { return r.NumEmpleado }},
		{"fecha_inicio_rel_laboral", "Fecha Inicio Rel Laboral", func(r *EmployeeRecord) string { return r.FechaInicioRelLaboral }},
		{"antiguedad", "Antiguedad", func(r *EmployeeRecord) string { return r.Antiguedad }},
		{"tipo_contrato", "Tipo Contrato", func(r *EmployeeRecord) string { return r.TipoContrato }},
		{"tipo_contrato_desc", "Tipo Contrato Desc", func(r *EmployeeRecord) string { return r.TipoContratoDesc }},
		{"sindicalizado", "Sindicalizado", func(r *EmployeeRecord) string { return r.Sindicalizado }},
		{"tipo_jornada", "Tipo Jornada", func(r *EmployeeRecord) string { return r.TipoJornada }},
		{"tipo_jornada_desc", "Tipo Jornada Desc", func(r *EmployeeRecord) string { return r.TipoJornadaDesc }},
		{"tipo_regimen", "Tipo Regimen", func(r *EmployeeRecord) string { return r.TipoRegimen }},
		{"tipo_regimen_desc", "Tipo Regimen Desc", func(r *EmployeeRecord) string { return r.TipoRegimenDesc }},
		{"departamento", "Departamento", func(r *EmployeeRecord) string { return r.Departamento }},
		{"puesto", "Puesto", func(r *EmployeeRecord) string { return r.Puesto }},
		{"riesgo_puesto", "Riesgo Puesto", func(r *EmployeeRecord) string { return r.RiesgoPuesto }},
		{"riesgo_puesto_desc", "Riesgo Puesto Desc", func(r *EmployeeRecord) string { return r.RiesgoPuestoDesc }},
		{"periodicidad_pago", "Periodicidad Pago", func(r *EmployeeRecord) string { return r.PeriodicidadPago }},
		{"periodicidad_pago_desc", "Periodicidad Pago Desc", func(r *EmployeeRecord) string { return r.PeriodicidadPagoDesc }},
		{"banco", "Banco", func(r *EmployeeRecord) string { return r.Banco }},
		{"cuenta_bancaria", "Cuenta Bancaria", func(r *EmployeeRecord) string { return r.CuentaBancaria }},
		{"clave_ent_fed", "Clave Ent Fed", func(r *EmployeeRecord) string { return r.ClaveEntFed }},
		{"salario_base_cot_apor", "Salario Base Cot Apor", func(r *EmployeeRecord) string { return r.SalarioBaseCotApor }},
		{"salario_diario_integrado", "Salario Diario Integrado", func(r *EmployeeRecord) string { return r.SalarioDiarioIntegrado }},
		{"rfc_empleador", "RFC Empleador", func(r *EmployeeRecord) string { return r.RFCEmpleador }},
		{"nombre_empleador", "Nombre Empleador", func(r *EmployeeRecord) string { return r.NombreEmpleador }},
		{"registro_patronal", "Registro Patronal", func(r *EmployeeRecord) string { return r.RegistroPatronal }},
		{"regimen_fiscal_empleador", "Regimen Fiscal Empleador", func(r *EmployeeRecord) string { return r.RegimenFiscalEmpleador }},
		{"version_nomina", "Version Nomina", func(r *EmployeeRecord) string { return r.VersionNomina }},
		{"tipo_nomina", "Tipo Nomina", func(r *EmployeeRecord) string { return r.TipoNomina }},
		{"folio", "Folio", func(r *EmployeeRecord) string { return r.Folio }},
		{"fecha_pago", "Fecha CFDI", func(r *EmployeeRecord) string { return r.FechaPago }},
		{"fecha_pago_nomina", "Fecha Pago Nomina", func(r *EmployeeRecord) string { return r.FechaPagoNomina }},
		{"fecha_inicial_pago", "Fecha Inicial Pago", func(r *EmployeeRecord) string { return r.FechaInicialPago }},
		{"fecha_final_pago", "Fecha Final Pago", func(r *EmployeeRecord) string { return r.FechaFinalPago }},
		{"num_dias_pagados", "Num Dias Pagados", func(r *EmployeeRecord) string { return r.NumDiasPagados }},
		{"total_percepciones", "Total Percepciones", func(r *EmployeeRecord) string { return r.TotalPercepciones }},
		{"total_deducciones", "Total Deducciones", func(r *EmployeeRecord) string { return r.TotalDeducciones }},
		{"total_otras_deducciones", "Total Otras Deducciones", func(r *EmployeeRecord) string { return r.TotalOtrasDeducciones }},
		{"fecha_timbrado", "Fecha Timbrado", func(r *EmployeeRecord) string { return r.FechaTimbrado }},
		{"uuid", "UUID", func(r *EmployeeRecord) string { return r.UUID }},
		{"archivo_origen", "Archivo Origen", func(r *EmployeeRecord) string { return r.ArchivoOrigen }},
		{"fecha_procesamiento", "Fecha Procesamiento", func(r *EmployeeRecord) string { return r.FechaProcesamiento }},
	}
}

// DateField returns the named date-bearing field value, or empty for
// unknown names. Used by the deduplicator's precedence list.
func (r *EmployeeRecord) DateField(name string) string {
	switch name {
	case "fecha_pago":
		return r.FechaPago
	case "fecha_pago_nomina":
		return r.FechaPagoNomina
	case "fecha_timbrado":
		return r.FechaTimbrado
	case "fecha_inicio_rel_laboral":
		return r.FechaInicioRelLaboral
	case "fecha_procesamiento":
		return r.FechaProcesamiento
	default:
		return ""
	}
}
