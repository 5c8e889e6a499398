package services

import (
	"time"

	"receitas/models"
)

// DemoRecipes is the sample catalog used by the memory backend.
func DemoRecipes(now time.Time) []models.Recipe {
	return []models.Recipe{
		{
			Name: "Bolo de Natal",
			Ingredients: models.Ingredients{
				models.Pair("3", "ovos"),
				models.Pair("2 xícaras", "farinha de trigo"),
				models.Pair("1 xícara", "frutas cristalizadas"),
				models.Text("Raspas de laranja a gosto"),
			},
			Instructions: []string{
				"Bata os ovos com o açúcar até formar um creme.",
				"Junte a farinha e as frutas cristalizadas.",
				"Asse em forno médio por 40 minutos.",
			},
			PrepTime:    "1h",
			Servings:    "10 fatias",
			StorageInfo: "Até 5 dias em pote fechado",
			Price:       "R$ 45,00",
			CreatedAt:   now.Add(-72 * time.Hour),
		},
		{
			Name: "Rabanada",
			Ingredients: models.Ingredients{
				models.Text("1 pão francês amanhecido"),
				models.Text("2 xícaras de leite"),
				models.Text("2 ovos"),
				models.Text("Canela e açúcar para polvilhar"),
			},
			Instructions: []string{
				"Corte o pão em fatias grossas.",
				"Passe no leite e depois nos ovos batidos.",
				"Frite e polvilhe com canela e açúcar.",
			},
			PrepTime:   "30 min",
			Servings:   "6 porções",
			Price:      "R$ 12,50",
			IsFavorite: true,
			CreatedAt:  now.Add(-48 * time.Hour),
		},
		{
			Name: "Farofa de Castanhas",
			Ingredients: models.Ingredients{
				models.Pair("2 xícaras", "farinha de mandioca"),
				models.Pair("100g", "castanha-do-pará"),
				models.Pair("", "manteiga"),
			},
			Instructions: []string{
				"Derreta a manteiga e doure as castanhas.",
				"Acrescente a farinha e mexa até dourar.",
			},
			PrepTime:  "20 min",
			CreatedAt: now.Add(-24 * time.Hour),
		},
		{
			Name: "Pavê de Chocolate",
			Ingredients: models.Ingredients{
				models.Text("1 pacote de biscoito maisena"),
				models.Text("1 lata de leite condensado"),
				models.Text("200g de chocolate meio amargo"),
			},
			Instructions: []string{
				"Prepare o creme com leite condensado.",
				"Monte camadas de biscoito e creme.",
				"Cubra com chocolate derretido e leve à geladeira.",
			},
			Servings:    "8 porções",
			StorageInfo: "Geladeira por até 3 dias",
			Price:       "R$ 38,90",
			CreatedAt:   now,
		},
	}
}
