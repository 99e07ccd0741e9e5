package catalog

import "strings"

// Canonical catalog names. These match the SAT nómina attribute names the
// extractor resolves, and the sheet names of catNomina workbooks once their
// "c_" prefix is stripped.
const (
	CatTipoContrato     = "TipoContrato"
	CatTipoJornada      = "TipoJornada"
	CatTipoRegimen      = "TipoRegimen"
	CatPeriodicidadPago = "PeriodicidadPago"
	CatRiesgoPuesto     = "RiesgoPuesto"
)

// manualCatalogs is the hardcoded last-resort tier. Kept in sync with the
// published SAT catalogs; "99" entries are the catch-alls the schema allows.
var manualCatalogs = map[string]map[string]string{
	CatTipoContrato: {
		"01": "Contrato de trabajo por tiempo indeterminado",
		"02": "Contrato de trabajo por tiempo determinado",
		"03": "Contrato de trabajo para obra determinada",
		"04": "Contrato de trabajo por tiempo indeterminado sujeto a prueba",
		"05": "Contrato de trabajo por tiempo determinado sujeto a prueba",
		"06": "Contrato de trabajo por temporada",
		"07": "Contrato de trabajo por módulo laboral",
		"08": "Contrato de trabajo por tiempo determinado discontinuo",
		"09": "Contrato de trabajo para capacitación inicial",
		"10": "Contrato de trabajo por tiempo indeterminado a prueba",
		"99": "Otro tipo de contrato",
	},
	CatTipoJornada: {
		"01": "Diurna",
		"02": "Nocturna",
		"03": "Mixta",
		"04": "Por hora",
		"05": "Reducida",
		"06": "Continuada",
		"07": "Partida",
		"08": "Por turnos",
		"09": "Discontinua",
		"99": "Otra jornada",
	},
	CatTipoRegimen: {
		"02": "Sueldos",
		"03": "Jubilados",
		"04": "Pensionados",
		"05": "Asimilados a salarios, Miembros de Sociedades Cooperativas de Producción",
		"06": "Asimilados a salarios, Integrantes de Sociedades y Asociaciones Civiles",
		"07": "Asimilados a salarios, Miembros de consejos",
		"08": "Asimilados a salarios, Comisionistas",
		"09": "Asimilados a salarios, Honorarios",
		"10": "Asimilados a salarios, Acciones",
		"11": "Asimilados a salarios, Otros",
		"12": "Jubilados o Pensionados",
		"13": "Indemnización o Separación",
		"99": "Otro Régimen",
	},
	CatPeriodicidadPago: {
		"01": "Diario",
		"02": "Semanal",
		"03": "Catorcenal",
		"04": "Quincenal",
		"05": "Mensual",
		"06": "Bimestral",
		"07": "Trimestral",
		"08": "Semestral",
		"09": "Anual",
		"10": "Decenal",
		"11": "Paganini",
		"99": "Otra periodicidad",
	},
	CatRiesgoPuesto: {
		"1":  "Clase I (Gastos médicos)",
		"2":  "Clase II (Gastos médicos y pensiones)",
		"3":  "Clase III (Invalidez y vida)",
		"4":  "Clase IV (Invalidez, vida y cesantía)",
		"5":  "Clase V (Invalidez, vida, cesantía y vejez)",
		"99": "No aplica",
	},
}

// UnresolvedSuffix annotates codes that resolved through no tier.
const UnresolvedSuffix = " (Sin descripción)"

// ManualDescription resolves a code against the hardcoded tables and always
// returns an annotated string: the known description, or the code marked as
// unresolved. Riesgo puesto codes are single digits in both padded and
// unpadded form in the wild, so both are accepted.
func ManualDescription(catalogName, code string) string {
	if desc, ok := manualLookup(catalogName, code); ok {
		return desc
	}
	return strings.TrimSpace(code) + UnresolvedSuffix
}

// DescribeOrKeep resolves a code against the hardcoded tables and returns
// the raw code unchanged when no entry exists. Call sites that display the
// code column next to the description column use this variant.
func DescribeOrKeep(catalogName, code string) string {
	if desc, ok := manualLookup(catalogName, code); ok {
		return desc
	}
	return code
}

func manualLookup(catalogName, code string) (string, bool) {
	table, ok := manualCatalogs[normalizeCatalogName(catalogName)]
	if !ok {
		return "", false
	}

	key := strings.TrimSpace(code)
	if desc, ok := table[key]; ok {
		return desc, true
	}
	// Accept zero-padded aliases of single-digit codes and vice versa.
	if len(key) == 1 && key >= "0" && key <= "9" {
		if desc, ok := table["0"+key]; ok {
			return desc, true
		}
	}
	if len(key) == 2 && key[0] == '0' {
		if desc, ok := table[key[1:]]; ok {
			return desc, true
		}
	}
	return "", false
}

// normalizeCatalogName maps workbook sheet names onto canonical catalog
// names: the SAT ships sheets as "c_TipoContrato".
func normalizeCatalogName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "c_")
	return name
}
