package domain

// RecordType is the semantic granularity of one harmonised row.
type RecordType string

const (
	RecordLocalAuthority    RecordType = "local_authority"
	RecordSector            RecordType = "sector"
	RecordSubsector         RecordType = "subsector"
	RecordRegionalAggregate RecordType = "regional_aggregate"
	RecordNationalAggregate RecordType = "national_aggregate"
	RecordUnknown           RecordType = "unknown"
)

// NationalLabel is the country value that marks UK-wide aggregate rows.
const NationalLabel = "United Kingdom"

// RecordTypes lists every label the classifier can assign, in cascade order.
var RecordTypes = []RecordType{
	RecordLocalAuthority,
	RecordSubsector,
	RecordSector,
	RecordRegionalAggregate,
	RecordNationalAggregate,
	RecordUnknown,
}

// HarmonisedRow is one row of the canonical emissions schema. String fields
// use "" for absent values; numeric measures use nil pointers because zero is
// a legitimate reading. LocalAuthorityCode may carry the literal null marker
// "nan" left behind by upstream exports, which counts as neither present nor
// absent for classification purposes.
type HarmonisedRow struct {
	Country              string   `json:"country,omitempty"`
	CountryCode          string   `json:"country_code,omitempty"`
	Region               string   `json:"region,omitempty"`
	RegionCode           string   `json:"region_code,omitempty"`
	LocalAuthority       string   `json:"local_authority,omitempty"`
	LocalAuthorityCode   string   `json:"local_authority_code,omitempty"`
	CalendarYear         int      `json:"calendar_year,omitempty"`
	Sector               string   `json:"la_ghg_sector,omitempty"`
	Subsector            string   `json:"la_ghg_sub_sector,omitempty"`
	Gas                  string   `json:"greenhouse_gas,omitempty"`
	TerritorialEmissions *float64 `json:"territorial_emissions_kt_co2e,omitempty"`
	InfluenceEmissions   *float64 `json:"co2_emissions_influence_kt_co2,omitempty"`
	Population           *float64 `json:"mid_year_population_thousands,omitempty"`
	AreaKm2              *float64 `json:"area_km2,omitempty"`
	RecordType           RecordType `json:"record_type,omitempty"`
}

// EmissionsTotal is one local authority's territorial total for one year,
// produced by harmonising the DESNZ summary workbook.
type EmissionsTotal struct {
	Code         string  `json:"local_authority_code"`
	Name         string  `json:"local_authority"`
	CalendarYear int     `json:"calendar_year"`
	KtCO2e       float64 `json:"emissions_kt_co2e"`
}

// PopulationRecord is one local authority's mid-year population estimate.
type PopulationRecord struct {
	Code         string  `json:"local_authority_code"`
	Name         string  `json:"local_authority"`
	CalendarYear int     `json:"calendar_year"`
	Population   float64 `json:"population"`
}

// PerCapitaRecord joins emissions totals with population counts.
type PerCapitaRecord struct {
	Code            string  `json:"local_authority_code"`
	Name            string  `json:"local_authority"`
	Population      float64 `json:"population"`
	KtCO2e          float64 `json:"emissions_kt_co2e"`
	PerCapitaTonnes float64 `json:"per_capita_tonnes"`
}
