package models

// CitizenProfile is everything the citizen told us about the household.
// Nil pointers and empty strings mean "not informed"; the engine treats them
// as unknown, never as false or zero. The engine never mutates a profile.
type CitizenProfile struct {
	// Location
	Estado        string `json:"estado" yaml:"estado" validate:"required,uf"`
	MunicipioIbge string `json:"municipioIbge,omitempty" yaml:"municipioIbge,omitempty" validate:"omitempty,len=7,numeric"`

	// Household composition
	Idade            *int  `json:"idade,omitempty" yaml:"idade,omitempty" validate:"omitempty,min=0,max=130"`
	PessoasNaCasa    *int  `json:"pessoasNaCasa,omitempty" yaml:"pessoasNaCasa,omitempty" validate:"required,min=1,max=50"`
	QuantidadeFilhos *int  `json:"quantidadeFilhos,omitempty" yaml:"quantidadeFilhos,omitempty" validate:"omitempty,min=0"`
	FilhosMenores6   *int  `json:"filhosMenores6,omitempty" yaml:"filhosMenores6,omitempty" validate:"omitempty,min=0"`
	QuantidadeIdosos *int  `json:"quantidadeIdosos,omitempty" yaml:"quantidadeIdosos,omitempty" validate:"omitempty,min=0"`
	Gestante         *bool `json:"gestante,omitempty" yaml:"gestante,omitempty"`
	Amamentando      *bool `json:"amamentando,omitempty" yaml:"amamentando,omitempty"`
	TemDeficiencia   *bool `json:"temDeficiencia,omitempty" yaml:"temDeficiencia,omitempty"`

	// Income and current transfers
	RendaFamiliarMensal *float64 `json:"rendaFamiliarMensal,omitempty" yaml:"rendaFamiliarMensal,omitempty" validate:"omitempty,min=0"`
	RecebeBolsaFamilia  *bool    `json:"recebeBolsaFamilia,omitempty" yaml:"recebeBolsaFamilia,omitempty"`
	ValorBolsaFamilia   *float64 `json:"valorBolsaFamilia,omitempty" yaml:"valorBolsaFamilia,omitempty" validate:"omitempty,min=0"`
	RecebeBPC           *bool    `json:"recebeBPC,omitempty" yaml:"recebeBPC,omitempty"`
	ValorBPC            *float64 `json:"valorBPC,omitempty" yaml:"valorBPC,omitempty" validate:"omitempty,min=0"`
	RecebeTarifaSocial  *bool    `json:"recebeTarifaSocial,omitempty" yaml:"recebeTarifaSocial,omitempty"`

	// Employment
	SituacaoEmprego        string `json:"situacaoEmprego,omitempty" yaml:"situacaoEmprego,omitempty" validate:"omitempty,oneof=formal informal desempregado autonomo aposentado do_lar estudante"`
	TemCarteiraAssinada    *bool  `json:"temCarteiraAssinada,omitempty" yaml:"temCarteiraAssinada,omitempty"`
	TrabalhadorInformal    *bool  `json:"trabalhadorInformal,omitempty" yaml:"trabalhadorInformal,omitempty"`
	Mei                    *bool  `json:"mei,omitempty" yaml:"mei,omitempty"`
	Desempregado           *bool  `json:"desempregado,omitempty" yaml:"desempregado,omitempty"`
	RecebeSeguroDesemprego *bool  `json:"recebeSeguroDesemprego,omitempty" yaml:"recebeSeguroDesemprego,omitempty"`
	AgricultorFamiliar     *bool  `json:"agricultorFamiliar,omitempty" yaml:"agricultorFamiliar,omitempty"`
	PescadorArtesanal      *bool  `json:"pescadorArtesanal,omitempty" yaml:"pescadorArtesanal,omitempty"`

	// Housing
	SituacaoMoradia string `json:"situacaoMoradia,omitempty" yaml:"situacaoMoradia,omitempty" validate:"omitempty,oneof=propria alugada cedida ocupacao financiada rua"`
	TemCasaPropria  *bool  `json:"temCasaPropria,omitempty" yaml:"temCasaPropria,omitempty"`
	SituacaoRua     *bool  `json:"situacaoRua,omitempty" yaml:"situacaoRua,omitempty"`

	// Documentation
	CadastradoCadunico *bool `json:"cadastradoCadunico,omitempty" yaml:"cadastradoCadunico,omitempty"`
	TemCpf             *bool `json:"temCpf,omitempty" yaml:"temCpf,omitempty"`
	TemNis             *bool `json:"temNis,omitempty" yaml:"temNis,omitempty"`

	// Education and traditional communities
	Estudante     *bool `json:"estudante,omitempty" yaml:"estudante,omitempty"`
	EscolaPublica *bool `json:"escolaPublica,omitempty" yaml:"escolaPublica,omitempty"`
	Indigena      *bool `json:"indigena,omitempty" yaml:"indigena,omitempty"`
	Quilombola    *bool `json:"quilombola,omitempty" yaml:"quilombola,omitempty"`

	// BeneficiosAtuais lists ids or program codes of benefits already received
	// that have no dedicated flag above (mostly state and municipal programs).
	BeneficiosAtuais []string `json:"beneficiosAtuais,omitempty" yaml:"beneficiosAtuais,omitempty"`
}
