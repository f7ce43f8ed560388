package mapper

// The tax practice has accumulated two questionnaire naming schemes over the
// years: plain snake_case field names from the current form builder and the
// older "qNN_" prefixed names from the original numbered questionnaire. Every
// semantic field therefore carries an ordered alias chain; the first present,
// non-nil source value wins.

// textField maps a template placeholder to its source aliases verbatim.
type textField struct {
	Name    string
	Aliases []string
}

// expenseField maps an annual expense amount to a currency placeholder. When
// Deductible is set, the mapper also emits "<Name>_DEDUCTIBLE" holding the
// amount scaled by the business-use percentage.
type expenseField struct {
	Name       string
	Aliases    []string
	Deductible bool
}

var textFields = []textField{
	{Name: "CLIENT_NAME", Aliases: []string{"client_name", "q01_client_name", "full_name", "name"}},
	{Name: "CLIENT_ADDRESS", Aliases: []string{"client_address", "q02_address", "home_address", "address"}},
	{Name: "CLIENT_ABN", Aliases: []string{"client_abn", "q03_abn", "abn"}},
	{Name: "CLIENT_EMAIL", Aliases: []string{"client_email", "q04_email", "email"}},
	{Name: "CLIENT_PHONE", Aliases: []string{"client_phone", "q05_phone", "phone"}},
	{Name: "OCCUPATION", Aliases: []string{"occupation", "q06_occupation"}},
	{Name: "BUSINESS_NAME", Aliases: []string{"business_name", "q07_business_name", "trading_name"}},
	{Name: "BUSINESS_STRUCTURE", Aliases: []string{"business_structure", "q08_structure", "entity_type"}},
	{Name: "PROPERTY_OWNERSHIP", Aliases: []string{"property_ownership", "q09_ownership", "own_or_rent"}},

	// Strategy selector answers pass through as entered.
	{Name: "STRATEGY_HOME_OFFICE", Aliases: []string{"strategy_home_office", "q30_home_office"}},
	{Name: "STRATEGY_MOTOR_VEHICLE", Aliases: []string{"strategy_motor_vehicle", "q31_motor_vehicle"}},
	{Name: "STRATEGY_SUPER", Aliases: []string{"strategy_super", "q32_super_contributions"}},
	{Name: "STRATEGY_TRUST", Aliases: []string{"strategy_trust", "q33_trust_distribution"}},
	{Name: "STRATEGY_INCOME_SPLIT", Aliases: []string{"strategy_income_split", "q34_income_splitting"}},
	{Name: "STRATEGY_NOTES", Aliases: []string{"strategy_notes", "q35_notes", "additional_notes"}},
}

var areaFields = []textField{
	{Name: "FLOOR_AREA_TOTAL", Aliases: []string{"floor_area_total", "q10_floor_area", "total_floor_area"}},
	{Name: "FLOOR_AREA_OFFICE", Aliases: []string{"floor_area_office", "q11_office_area", "office_floor_area"}},
}

// Business-use percentage drives every deductible figure.
var bupAliases = []string{"bup_percentage", "q12_bup", "business_use_percentage", "bup"}

var hoursPerWeekAliases = []string{"hours_per_week", "q13_hours_per_week", "weekly_hours"}
var weeksPerYearAliases = []string{"weeks_per_year", "q14_weeks_per_year", "working_weeks"}

var expenseFields = []expenseField{
	{Name: "MORTGAGE_INTEREST", Aliases: []string{"mortgage_interest", "q15_mortgage_interest"}, Deductible: true},
	{Name: "RENT", Aliases: []string{"rent", "q16_rent", "annual_rent"}, Deductible: true},
	{Name: "ELECTRICITY", Aliases: []string{"electricity", "q17_electricity"}, Deductible: true},
	{Name: "GAS", Aliases: []string{"gas", "q18_gas"}, Deductible: true},
	{Name: "WATER", Aliases: []string{"water", "q19_water", "water_rates"}, Deductible: true},
	{Name: "COUNCIL_RATES", Aliases: []string{"council_rates", "q20_council_rates"}, Deductible: true},
	{Name: "INSURANCE", Aliases: []string{"insurance", "q21_insurance", "home_insurance"}, Deductible: true},
	{Name: "REPAIRS_MAINTENANCE", Aliases: []string{"repairs_maintenance", "q22_repairs", "repairs"}, Deductible: true},
	{Name: "CLEANING", Aliases: []string{"cleaning", "q23_cleaning"}, Deductible: true},
	{Name: "BODY_CORPORATE", Aliases: []string{"body_corporate", "q24_body_corporate", "strata_fees"}, Deductible: true},
	{Name: "DEPRECIATION", Aliases: []string{"depreciation", "q25_depreciation"}, Deductible: true},

	// Fully work-related expenses are reported at face value only.
	{Name: "INTERNET", Aliases: []string{"internet", "q26_internet"}},
	{Name: "PHONE_EXPENSE", Aliases: []string{"phone_expense", "q27_phone_expense", "mobile_expense"}},
	{Name: "STATIONERY", Aliases: []string{"stationery", "q28_stationery"}},
	{Name: "COMPUTER_EQUIPMENT", Aliases: []string{"computer_equipment", "q29_computer_equipment"}},
}
