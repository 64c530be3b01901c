package documents

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type Kind string

const (
	KindNDA                 Kind = "nda"
	KindAffidavit           Kind = "affidavit"
	KindRentAgreement       Kind = "rent_agreement"
	KindSaleDeed            Kind = "sale_deed"
	KindLeaseDeed           Kind = "lease_deed"
	KindUnpaidSalaryNotice  Kind = "unpaid_salary_notice"
	KindLoanRepaymentNotice Kind = "loan_repayment_notice"
	KindSummary             Kind = "summary"
	KindFAQ                 Kind = "faq"
)

type kindSpec struct {
	template   string
	dateFields []string
	optional   []string
	lists      []string
}

var kindSpecs = map[Kind]kindSpec{
	KindNDA:                 {template: "nda_template.docx", dateFields: []string{"agreement_date"}},
	KindAffidavit:           {template: "affidavit_template.docx", dateFields: []string{"verification_date", "agreement_date"}},
	KindRentAgreement:       {template: "rent_agreement_template.docx", dateFields: []string{"agreement_date"}},
	KindSaleDeed:            {template: "sale_deed_template.docx", dateFields: []string{"execution_date"}, optional: []string{"payment_reference"}},
	KindLeaseDeed:           {template: "lease_deed_template.docx", dateFields: []string{"execution_date"}, optional: []string{"payment_reference"}},
	KindUnpaidSalaryNotice:  {template: "unpaid_salary_notice_template.docx", dateFields: []string{"generation_date"}},
	KindLoanRepaymentNotice: {template: "loan_repayment_notice_template.docx", dateFields: []string{"generation_date"}},
	KindSummary: {template: "summary_template.docx", optional: []string{
		"case_name", "case_number", "court_name", "jurisdiction", "citations",
		"petitioner", "respondent", "adv_petitioner", "adv_respondent",
		"judgment_date", "filing_date", "sections", "final_judgment",
	}, lists: []string{"issues"}},
	KindFAQ: {template: "faq_template.docx", lists: []string{"faqs"}},
}

// TemplateFor returns the template file name for kind.
func TemplateFor(k Kind) string {
	return kindSpecs[k].template
}

// Request is a validated, per-kind document payload.
type Request interface {
	Kind() Kind
	// BaseName is the sanitized stem used for output file names.
	BaseName() string
}

type Party struct {
	Name    string `json:"name" validate:"notblank"`
	Address string `json:"address" validate:"notblank"`
}

type NDARequest struct {
	DisclosingParty     Party   `json:"disclosing_party"`
	ReceivingParties    []Party `json:"receiving_parties" validate:"required,min=1,dive"`
	PurposeOfDisclosure string  `json:"purpose_of_disclosure" validate:"notblank"`
	BusinessPurpose     string  `json:"business_purpose" validate:"notblank"`
	DurationYears       int     `json:"duration_years" validate:"gt=0"`
	JurisdictionCity    string  `json:"jurisdiction_city" validate:"notblank"`
}

func (NDARequest) Kind() Kind { return KindNDA }
func (r NDARequest) BaseName() string {
	return "nda_" + SanitizeFilename(r.DisclosingParty.Name)
}

type AffidavitRequest struct {
	DeponentFullName    string `json:"deponent_full_name" validate:"notblank"`
	DeponentAge         int    `json:"deponent_age" validate:"gt=0"`
	RelationName        string `json:"relation_name" validate:"notblank"`
	DeponentAddress     string `json:"deponent_address" validate:"notblank"`
	PurposeOfAffidavit  string `json:"purpose_of_affidavit" validate:"notblank"`
	VerificationPlace   string `json:"verification_place" validate:"notblank"`
	IdentifierName      string `json:"identifier_name" validate:"notblank"`
	NotaryName          string `json:"notary_name" validate:"notblank"`
	NotaryRegNo         string `json:"notary_reg_no" validate:"notblank"`
	NotaryOfficeAddress string `json:"notary_office_address" validate:"notblank"`
}

func (AffidavitRequest) Kind() Kind { return KindAffidavit }
func (r AffidavitRequest) BaseName() string {
	return "affidavit_" + SanitizeFilename(r.DeponentFullName)
}

type RentAgreementRequest struct {
	AgreementCity        string `json:"agreement_city" validate:"notblank"`
	LandlordFullName     string `json:"landlord_full_name" validate:"notblank"`
	LandlordAge          int    `json:"landlord_age" validate:"gt=0"`
	LandlordRelationName string `json:"landlord_relation_name" validate:"notblank"`
	LandlordAddress      string `json:"landlord_address" validate:"notblank"`
	LandlordPhone        string `json:"landlord_phone" validate:"notblank"`
	TenantFullName       string `json:"tenant_full_name" validate:"notblank"`
	TenantAge            int    `json:"tenant_age" validate:"gt=0"`
	TenantRelationName   string `json:"tenant_relation_name" validate:"notblank"`
	TenantAddress        string `json:"tenant_address" validate:"notblank"`
	TenantPhone          string `json:"tenant_phone" validate:"notblank"`
	PropertyAddress      string `json:"property_address" validate:"notblank"`
	PropertyDescription  string `json:"property_description" validate:"notblank"`
	StartDate            string `json:"start_date" validate:"notblank"`
	DurationMonths       int    `json:"duration_months" validate:"gt=0"`
	MonthlyRent          int    `json:"monthly_rent" validate:"gt=0"`
	MonthlyRentWords     string `json:"monthly_rent_words" validate:"notblank"`
	DueDay               int    `json:"due_day" validate:"gt=0,lt=32"`
	PaymentMode          string `json:"payment_mode" validate:"notblank"`
	PaymentAddress       string `json:"payment_address" validate:"notblank"`
	SecurityAmount       int    `json:"security_amount" validate:"gt=0"`
	UsageType            string `json:"usage_type" validate:"notblank"`
	NoticePeriod         int    `json:"notice_period" validate:"gt=0"`
	JurisdictionCity     string `json:"jurisdiction_city" validate:"notblank"`
}

func (RentAgreementRequest) Kind() Kind { return KindRentAgreement }
func (r RentAgreementRequest) BaseName() string {
	return "rent_" + SanitizeFilename(r.LandlordFullName) + "_x_" + SanitizeFilename(r.TenantFullName)
}

type SaleDeedRequest struct {
	ExecutionCity       string  `json:"execution_city" validate:"notblank"`
	SellerFullName      string  `json:"seller_full_name" validate:"notblank"`
	SellerAge           int     `json:"seller_age" validate:"gt=0"`
	SellerRelationName  string  `json:"seller_relation_name" validate:"notblank"`
	SellerAddress       string  `json:"seller_address" validate:"notblank"`
	SellerPhone         string  `json:"seller_phone" validate:"notblank"`
	BuyerFullName       string  `json:"buyer_full_name" validate:"notblank"`
	BuyerAge            int     `json:"buyer_age" validate:"gt=0"`
	BuyerRelationName   string  `json:"buyer_relation_name" validate:"notblank"`
	BuyerAddress        string  `json:"buyer_address" validate:"notblank"`
	BuyerPhone          string  `json:"buyer_phone" validate:"notblank"`
	PropertyAddress     string  `json:"property_address" validate:"notblank"`
	OwnershipDetails    string  `json:"ownership_details" validate:"notblank"`
	SaleAmount          int     `json:"sale_amount" validate:"gt=0"`
	SaleAmountWords     string  `json:"sale_amount_words" validate:"notblank"`
	PaymentMode         string  `json:"payment_mode" validate:"notblank"`
	PaymentReference    *string `json:"payment_reference"`
	PaymentDate         string  `json:"payment_date" validate:"notblank"`
	PaymentAmount       int     `json:"payment_amount" validate:"gt=0"`
	PropertyType        string  `json:"property_type" validate:"notblank"`
	BoundaryEast        string  `json:"boundary_east" validate:"notblank"`
	BoundaryWest        string  `json:"boundary_west" validate:"notblank"`
	BoundaryNorth       string  `json:"boundary_north" validate:"notblank"`
	BoundarySouth       string  `json:"boundary_south" validate:"notblank"`
	PropertyArea        string  `json:"property_area" validate:"notblank"`
	JurisdictionCity    string  `json:"jurisdiction_city" validate:"notblank"`
	PropertyDescription string  `json:"property_description" validate:"notblank"`
	SurveyNumber        string  `json:"survey_number" validate:"notblank"`
}

func (SaleDeedRequest) Kind() Kind { return KindSaleDeed }
func (r SaleDeedRequest) BaseName() string {
	return "sale_deed_" + SanitizeFilename(r.SellerFullName) + "_x_" + SanitizeFilename(r.BuyerFullName)
}

type LeaseDeedRequest struct {
	ExecutionCity           string  `json:"execution_city" validate:"notblank"`
	LessorFullName          string  `json:"lessor_full_name" validate:"notblank"`
	LessorAge               int     `json:"lessor_age" validate:"gt=0"`
	LessorRelationName      string  `json:"lessor_relation_name" validate:"notblank"`
	LessorAddress           string  `json:"lessor_address" validate:"notblank"`
	LessorPhone             string  `json:"lessor_phone" validate:"notblank"`
	LesseeFullName          string  `json:"lessee_full_name" validate:"notblank"`
	LesseeAge               int     `json:"lessee_age" validate:"gt=0"`
	LesseeRelationName      string  `json:"lessee_relation_name" validate:"notblank"`
	LesseeAddress           string  `json:"lessee_address" validate:"notblank"`
	LesseePhone             string  `json:"lessee_phone" validate:"notblank"`
	PropertyAddress         string  `json:"property_address" validate:"notblank"`
	PropertyDescription     string  `json:"property_description" validate:"notblank"`
	LeasePurpose            string  `json:"lease_purpose" validate:"notblank"`
	LeaseStartDate          string  `json:"lease_start_date" validate:"notblank"`
	LeaseDurationYears      int     `json:"lease_duration_years" validate:"gt=0"`
	LeaseEndDate            string  `json:"lease_end_date" validate:"notblank"`
	LeaseRentAmount         int     `json:"lease_rent_amount" validate:"gt=0"`
	LeaseRentWords          string  `json:"lease_rent_words" validate:"notblank"`
	RentDueDay              int     `json:"rent_due_day" validate:"gt=0,lt=32"`
	PaymentMode             string  `json:"payment_mode" validate:"notblank"`
	PaymentReference        *string `json:"payment_reference"`
	SecurityDepositAmount   int     `json:"security_deposit_amount" validate:"gt=0"`
	TerminationNoticePeriod int     `json:"termination_notice_period" validate:"gt=0"`
	DefaultMonths           int     `json:"default_months" validate:"gt=0"`
	RegistrationBorneBy     string  `json:"registration_borne_by" validate:"notblank"`
	JurisdictionCity        string  `json:"jurisdiction_city" validate:"notblank"`
}

func (LeaseDeedRequest) Kind() Kind { return KindLeaseDeed }
func (r LeaseDeedRequest) BaseName() string {
	return "lease_deed_" + SanitizeFilename(r.LessorFullName) + "_x_" + SanitizeFilename(r.LesseeFullName)
}

type UnpaidSalaryNoticeRequest struct {
	RecipientName           string `json:"recipient_name" validate:"notblank"`
	RecipientDesignation    string `json:"recipient_designation" validate:"notblank"`
	RecipientCompanyName    string `json:"recipient_company_name" validate:"notblank"`
	RecipientCompanyAddress string `json:"recipient_company_address" validate:"notblank"`
	SenderName              string `json:"sender_name" validate:"notblank"`
	EmployeeID              string `json:"employee_id" validate:"notblank"`
	EmployeeCompanyName     string `json:"employee_company_name" validate:"notblank"`
	EmployeeCompanyAddress  string `json:"employee_company_address" validate:"notblank"`
	EmploymentStartDate     string `json:"employment_start_date" validate:"notblank"`
	EmploymentEndDate       string `json:"employment_end_date" validate:"notblank"`
	UnpaidSalaryPeriod      string `json:"unpaid_salary_period" validate:"notblank"`
	UnpaidSalaryAmount      int    `json:"unpaid_salary_amount" validate:"gt=0"`
	UnpaidSalaryAmountWords string `json:"unpaid_salary_amount_words" validate:"notblank"`
	ResponseTimeDays        int    `json:"response_time_days" validate:"gt=0"`
}

func (UnpaidSalaryNoticeRequest) Kind() Kind { return KindUnpaidSalaryNotice }
func (r UnpaidSalaryNoticeRequest) BaseName() string {
	return "notice_" + SanitizeFilename(r.SenderName) + "_to_" + SanitizeFilename(r.RecipientName)
}

type LoanRepaymentNoticeRequest struct {
	BorrowerName           string `json:"borrower_name" validate:"notblank"`
	BorrowerAddress        string `json:"borrower_address" validate:"notblank"`
	LenderName             string `json:"lender_name" validate:"notblank"`
	LenderAddress          string `json:"lender_address" validate:"notblank"`
	LenderContact          string `json:"lender_contact" validate:"notblank"`
	LoanAmount             int    `json:"loan_amount" validate:"gt=0"`
	LoanAmountWords        string `json:"loan_amount_words" validate:"notblank"`
	LoanDate               string `json:"loan_date" validate:"notblank"`
	RepaymentPeriod        int    `json:"repayment_period" validate:"gt=0"`
	LoanPurpose            string `json:"loan_purpose" validate:"notblank"`
	InstallmentAmount      int    `json:"installment_amount" validate:"gt=0"`
	OutstandingDate        string `json:"outstanding_date" validate:"notblank"`
	OutstandingAmount      int    `json:"outstanding_amount" validate:"gt=0"`
	OutstandingAmountWords string `json:"outstanding_amount_words" validate:"notblank"`
	ResponseTimeDays       int    `json:"response_time_days" validate:"gt=0"`
}

func (LoanRepaymentNoticeRequest) Kind() Kind { return KindLoanRepaymentNotice }
func (r LoanRepaymentNoticeRequest) BaseName() string {
	return "notice_" + SanitizeFilename(r.LenderName) + "_to_" + SanitizeFilename(r.BorrowerName)
}

// SummaryRequest is filled from a case-summary extraction, not from a client.
type SummaryRequest struct {
	CaseName      string   `json:"case_name"`
	CaseNumber    string   `json:"case_number"`
	CourtName     string   `json:"court_name"`
	Jurisdiction  string   `json:"jurisdiction"`
	Citations     string   `json:"citations"`
	Petitioner    string   `json:"petitioner"`
	Respondent    string   `json:"respondent"`
	AdvPetitioner string   `json:"adv_petitioner"`
	AdvRespondent string   `json:"adv_respondent"`
	JudgmentDate  string   `json:"judgment_date"`
	FilingDate    string   `json:"filing_date"`
	Sections      string   `json:"sections"`
	Issues        []string `json:"issues"`
	FinalJudgment string   `json:"final_judgment"`
}

func (SummaryRequest) Kind() Kind { return KindSummary }
func (r SummaryRequest) BaseName() string {
	if name := SanitizeFilename(r.CaseName); name != "" {
		return "summary_" + name
	}
	return "summary"
}

type FAQItem struct {
	Question string `json:"question" validate:"notblank"`
	Answer   string `json:"answer" validate:"notblank"`
}

type FAQSheetRequest struct {
	Topic string    `json:"topic" validate:"notblank"`
	FAQs  []FAQItem `json:"faqs" validate:"required,min=1,dive"`
}

func (FAQSheetRequest) Kind() Kind { return KindFAQ }
func (r FAQSheetRequest) BaseName() string {
	return "faq_" + SanitizeFilename(r.Topic)
}

// ValidationError lists every rejected field. It matches ErrInvalidRequest.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator, reporting fields by JSON name.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(JSONFieldName)
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// JSONFieldName names struct fields by their JSON key in validation errors.
func JSONFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Validate checks req against its struct tags.
func Validate(req any) error {
	err := Validator().Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &ValidationError{Problems: DescribeValidation(verrs)}
}

// DescribeValidation turns validator errors into client-facing sentences.
func DescribeValidation(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		switch fe.Tag() {
		case "required", "notblank":
			out = append(out, field+" is required")
		case "gt":
			out = append(out, fmt.Sprintf("%s must be greater than %s", field, fe.Param()))
		case "lt":
			out = append(out, fmt.Sprintf("%s must be less than %s", field, fe.Param()))
		case "min":
			if fe.Kind() == reflect.Slice {
				out = append(out, fmt.Sprintf("%s must have at least %s item(s)", field, fe.Param()))
			} else {
				out = append(out, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			}
		case "email":
			out = append(out, field+" must be a valid email address")
		default:
			out = append(out, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
