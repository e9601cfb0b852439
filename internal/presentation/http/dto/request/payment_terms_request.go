package request

// PaymentTermsRequest represents an installment template create or update
// request. Percentages are stored as given; sums other than 100 are allowed.
type PaymentTermsRequest struct {
	Name                     string  `json:"name" binding:"required,min=2,max=255"`
	PourcentageAcompte       float64 `json:"pourcentage_acompte" binding:"min=0,max=100"`
	PourcentageIntermediaire float64 `json:"pourcentage_intermediaire" binding:"min=0,max=100"`
	PourcentageSolde         float64 `json:"pourcentage_solde" binding:"min=0,max=100"`
	DelaiAcompteJours        int     `json:"delai_acompte_jours" binding:"min=0"`
	DelaiIntermediaireJours  int     `json:"delai_intermediaire_jours" binding:"min=0"`
	DelaiSoldeJours          int     `json:"delai_solde_jours" binding:"min=0"`
	MontantMin               float64 `json:"montant_min" binding:"min=0"`
	MontantMax               float64 `json:"montant_max" binding:"min=0"`
}
