package documents

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// The shipped templates live at the repository root.
var shippedTemplates = filepath.Join("..", "..", "templates")

func TestShippedTemplatesRender(t *testing.T) {
	now := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		req  Request
		want []string
	}{
		{NDARequest{
			DisclosingParty:     Party{Name: "Acme Pvt Ltd", Address: "Delhi"},
			ReceivingParties:    []Party{{Name: "Ravi", Address: "Pune"}, {Name: "Meera", Address: "Mumbai"}},
			PurposeOfDisclosure: "evaluation",
			BusinessPurpose:     "a joint venture",
			DurationYears:       2,
			JurisdictionCity:    "Delhi",
		}, []string{"Acme Pvt Ltd", "1. Ravi", "2. Meera", "2 year(s)", "March 05, 2025"}},
		{AffidavitRequest{DeponentFullName: "Asha Rao", DeponentAge: 30}, []string{"Asha Rao", "aged 30 years"}},
		{RentAgreementRequest{LandlordFullName: "L", TenantFullName: "T", MonthlyRent: 15000}, []string{"Rs. 15000/-"}},
		{SaleDeedRequest{SellerFullName: "S", BuyerFullName: "B"}, []string{"reference N/A"}},
		{LeaseDeedRequest{LessorFullName: "L", LesseeFullName: "E"}, []string{"reference N/A"}},
		{UnpaidSalaryNoticeRequest{SenderName: "Kiran"}, []string{"For Kiran", "Date: March 05, 2025"}},
		{LoanRepaymentNoticeRequest{LenderName: "Vikram & Sons"}, []string{"For Vikram &amp; Sons"}},
		{SummaryRequest{CaseName: "A v. B", Issues: []string{"Whether notice was valid"}}, []string{"A v. B", "1. Whether notice was valid", "Case number: N/A"}},
		{SummaryRequest{CaseName: "C v. D"}, []string{"No legal issues were identified."}},
		{FAQSheetRequest{Topic: "Bail", FAQs: []FAQItem{{Question: "What is bail?", Answer: "Release pending trial."}}}, []string{"Bail", "Q1. What is bail?", "Release pending trial."}},
	}
	loader := NewLoader(shippedTemplates)
	for _, tc := range cases {
		t.Run(string(tc.req.Kind()), func(t *testing.T) {
			tpl, err := loader.Load(TemplateFor(tc.req.Kind()))
			require.NoError(t, err)
			rc, err := BuildContext(tc.req, now)
			require.NoError(t, err)
			out, err := tpl.Execute(rc)
			require.NoError(t, err)

			body := documentXML(t, out)
			require.NotContains(t, body, "{{")
			require.NotContains(t, body, "{%")
			for _, w := range tc.want {
				require.True(t, strings.Contains(body, w), "missing %q", w)
			}
		})
	}
}
