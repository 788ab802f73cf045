package server

import "github.com/teodorv/medcycle/geo"

// fallbackCenters is the static placeholder list substituted when the
// map-data lookup ultimately fails. The entries direct the user to
// generally available options rather than specific facilities.
func fallbackCenters() []geo.RankedFacility {
	return []geo.RankedFacility{
		{
			Facility: geo.Facility{
				Name:           "Your local pharmacy",
				Address:        "Most pharmacies accept unopened medicine donations or can direct you to a program that does",
				Type:           geo.FacilityPharmacy,
				SourceVerified: false,
			},
		},
		{
			Facility: geo.Facility{
				Name:           "Nearest hospital outpatient pharmacy",
				Address:        "Hospital pharmacies commonly participate in medicine take-back and donation programs",
				Type:           geo.FacilityHospital,
				SourceVerified: false,
			},
		},
		{
			Facility: geo.Facility{
				Name:           "Community health clinic",
				Address:        "Community clinics often know which local programs accept donated medicine",
				Type:           geo.FacilityClinic,
				SourceVerified: false,
			},
		},
	}
}

// fallbackMedicineInfo is the static payload substituted when the medicine
// lookup fails after retries or returns an unparseable response.
func fallbackMedicineInfo(name string) MedicineInfo {
	return MedicineInfo{
		Name:             name,
		GenericName:      "unavailable",
		Category:         "unavailable",
		CommonUses:       []string{"Information temporarily unavailable"},
		StorageGuidance:  "Store in a cool, dry place away from direct sunlight unless the label says otherwise.",
		DisposalGuidance: "Use a pharmacy take-back program; do not flush unless the label instructs it.",
		Warnings: []string{
			"Detailed information could not be retrieved; consult your pharmacist before use or disposal.",
		},
	}
}
