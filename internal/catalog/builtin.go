package catalog

import (
	"fmt"
	"sort"
)

const (
	Basic  = "basic"
	Cardio = "cardio"
)

var builtins = map[string]func() (*Catalog, error){
	Basic:  basicCatalog,
	Cardio: cardioCatalog,
}

// Builtin returns one of the catalogs compiled into the binary.
func Builtin(name string) (*Catalog, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q (available: %v)", name, BuiltinNames())
	}
	return build()
}

// BuiltinNames lists the compiled-in catalogs.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// basicCatalog is the six-question chat form.
func basicCatalog() (*Catalog, error) {
	return New(Basic, "nome", "", []FieldSpec{
		{
			Key:   "nome",
			Label: "👋 Como você deseja ser chamado?",
			Intro: "Que bom te conhecer! 😊 Vamos começar sua jornada de saúde.",
			Kind:  KindText,
			Messages: Messages{
				Required: "Por favor, informe o nome ou apelido.",
				Invalid:  "Nome muito curto. Informe pelo menos 2 caracteres.",
			},
			Placeholder: "Digite o nome ou apelido 😊",
		},
		{
			Key:            "age",
			Label:          "🎂 Qual a sua idade?",
			Intro:          "Perfeito, {name}! Agora me conte sua idade. Isso é essencial para sua análise! 🎂",
			IntroAnonymous: "Perfeito! Agora me conte sua idade. Isso é essencial para sua análise! 🎂",
			Kind:           KindInteger,
			Min:            Bound(1),
			Max:            Bound(120),
			Messages:       Messages{Required: "Idade obrigatória", Invalid: "Idade inválida"},
			Placeholder:    "Ex: 35",
		},
		{
			Key:            "gender",
			Label:          "🧑‍⚕️ Qual o seu gênero?",
			Intro:          "Ótimo, {name}! Qual o seu gênero? O algoritmo considera isso na sua avaliação. 🧑‍⚕️",
			IntroAnonymous: "Ótimo! Qual o seu gênero? O algoritmo considera isso na sua avaliação. 🧑‍⚕️",
			Kind:           KindChoice,
			Options: []Option{
				{Value: "male", Label: "Masculino 👨"},
				{Value: "female", Label: "Feminino 👩"},
				{Value: "other", Label: "Outro 🧑"},
			},
			Messages: Messages{Required: "Selecione o gênero", Invalid: "Selecione o gênero"},
		},
		{
			Key:            "height",
			Label:          "📏 Qual a sua altura (cm)?",
			Intro:          "Excelente, {name}! Sua altura nos ajuda a calcular métricas importantes para você. 📏",
			IntroAnonymous: "Excelente! Sua altura nos ajuda a calcular métricas importantes para você. 📏",
			Kind:           KindInteger,
			Min:            Bound(50),
			Max:            Bound(250),
			Messages:       Messages{Required: "Altura obrigatória", Invalid: "Altura inválida"},
			Placeholder:    "Ex: 168",
		},
		{
			Key:            "weight",
			Label:          "⚖️ Qual o seu peso (kg)?",
			Intro:          "Quase terminando, {name}! Agora preciso saber seu peso. ⚖️",
			IntroAnonymous: "Quase terminando! Agora preciso saber seu peso. ⚖️",
			Kind:           KindDecimal,
			Min:            Bound(20),
			Max:            Bound(300),
			Messages:       Messages{Required: "Peso obrigatório", Invalid: "Peso inválido"},
			Placeholder:    "Ex: 72.5",
		},
		{
			Key:            "smoker",
			Label:          "🚬 Você é fumante?",
			Intro:          "Última pergunta, {name}! Você fuma? Isso impacta significativamente no seu risco cardíaco. 🚬",
			IntroAnonymous: "Última pergunta! Você fuma? Isso impacta significativamente no seu risco cardíaco. 🚬",
			Kind:           KindChoice,
			Options: []Option{
				{Value: true, Label: "Sim 👍"},
				{Value: false, Label: "Não 👎"},
			},
			Messages: Messages{Required: "Selecione uma opção", Invalid: "Selecione uma opção"},
		},
	})
}

// cardioCatalog collects the full feature set expected by the cardiovascular
// risk gateway. Categorical answers are the gateway's numeric codes.
func cardioCatalog() (*Catalog, error) {
	levels := []Option{
		{Value: 1, Label: "Normal"},
		{Value: 2, Label: "Acima do normal"},
		{Value: 3, Label: "Muito acima do normal"},
	}
	yesNo := []Option{
		{Value: 0, Label: "Não"},
		{Value: 1, Label: "Sim"},
	}

	return New(Cardio, "user_id", "", []FieldSpec{
		{
			Key:      "user_id",
			Label:    "👋 Como podemos identificar você?",
			Kind:     KindText,
			Messages: Messages{Required: "Informe um identificador.", Invalid: "Identificador muito curto. Informe pelo menos 2 caracteres."},
		},
		{
			Key:            "age",
			Label:          "🎂 Qual a sua idade?",
			Intro:          "Obrigado, {name}! Vamos aos dados clínicos.",
			IntroAnonymous: "Obrigado! Vamos aos dados clínicos.",
			Kind:           KindInteger,
			Min:            Bound(18),
			Max:            Bound(100),
			Messages:       Messages{Required: "Idade obrigatória", Invalid: "Idade inválida (18 a 100 anos)"},
		},
		{
			Key:   "gender",
			Label: "🧑‍⚕️ Qual o seu gênero?",
			Kind:  KindChoice,
			Options: []Option{
				{Value: 1, Label: "Feminino"},
				{Value: 2, Label: "Masculino"},
			},
			Messages: Messages{Required: "Selecione o gênero"},
		},
		{
			Key:      "height",
			Label:    "📏 Qual a sua altura (cm)?",
			Kind:     KindInteger,
			Min:      Bound(100),
			Max:      Bound(250),
			Messages: Messages{Required: "Altura obrigatória", Invalid: "Altura inválida (100 a 250 cm)"},
		},
		{
			Key:      "weight",
			Label:    "⚖️ Qual o seu peso (kg)?",
			Kind:     KindDecimal,
			Min:      Bound(30),
			Max:      Bound(300),
			Messages: Messages{Required: "Peso obrigatório", Invalid: "Peso inválido (30 a 300 kg)"},
		},
		{
			Key:            "ap_hi",
			Label:          "🩺 Pressão sistólica (máxima, mmHg)?",
			Intro:          "Agora, {name}, vamos falar da sua pressão arterial.",
			IntroAnonymous: "Agora vamos falar da sua pressão arterial.",
			Kind:           KindInteger,
			Min:            Bound(70),
			Max:            Bound(250),
			Messages:       Messages{Required: "Pressão sistólica obrigatória", Invalid: "Pressão sistólica inválida (70 a 250)"},
		},
		{
			Key:      "ap_lo",
			Label:    "🩺 Pressão diastólica (mínima, mmHg)?",
			Kind:     KindInteger,
			Min:      Bound(40),
			Max:      Bound(150),
			Messages: Messages{Required: "Pressão diastólica obrigatória", Invalid: "Pressão diastólica inválida (40 a 150)"},
		},
		{
			Key:      "cholesterol",
			Label:    "🧪 Como está o seu colesterol?",
			Kind:     KindChoice,
			Options:  levels,
			Messages: Messages{Required: "Selecione o nível de colesterol"},
		},
		{
			Key:      "gluc",
			Label:    "🧪 Como está a sua glicose?",
			Kind:     KindChoice,
			Options:  levels,
			Messages: Messages{Required: "Selecione o nível de glicose"},
		},
		{
			Key:            "smoke",
			Label:          "🚬 Você é fumante?",
			Intro:          "Quase lá, {name}! Só mais três perguntas sobre hábitos.",
			IntroAnonymous: "Quase lá! Só mais três perguntas sobre hábitos.",
			Kind:           KindChoice,
			Options:        yesNo,
			Messages:       Messages{Required: "Selecione uma opção"},
		},
		{
			Key:      "alco",
			Label:    "🍷 Você consome bebida alcoólica?",
			Kind:     KindChoice,
			Options:  yesNo,
			Messages: Messages{Required: "Selecione uma opção"},
		},
		{
			Key:      "active",
			Label:    "🏃 Você pratica atividade física?",
			Kind:     KindChoice,
			Options:  yesNo,
			Messages: Messages{Required: "Selecione uma opção"},
		},
	})
}
