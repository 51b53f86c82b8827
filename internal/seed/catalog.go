package seed

import "github.com/sakif/game-portal/internal/model"

func str(s string) *string { return &s }

// InitialCatalog is inserted when the juegos table is empty, newest first.
var InitialCatalog = []model.Game{
	{Name: "Hangman", Genre: "Puzzle", Platform: "Web", Year: 2024,
		Description: "Juego clásico del ahorcado implementado por el equipo.",
		ImagePath:   str("../assets/hangman.png")},
	{Name: "LEGO Star Wars: The Skywalker Saga", Genre: "Acción", Platform: "PC/Consola", Year: 2022,
		Description:  "Revive las 9 películas de la saga LEGO.",
		ImagePath:    str("../assets/lego.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Lego_Star_Wars:_The_Skywalker_Saga")},
	{Name: "Animal Crossing: New Horizons", Genre: "Simulación", Platform: "Nintendo Switch", Year: 2020,
		Description:  "Crea tu propia isla y comunidad.",
		ImagePath:    str("../assets/animalcrossing.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Animal_Crossing:_New_Horizons")},
	{Name: "Hades", Genre: "Roguelike", Platform: "PC/Consola", Year: 2020,
		Description:  "Escapa del inframundo en este título de acción.",
		ImagePath:    str("../assets/hades.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Hades_(videojuego)")},
	{Name: "The Legend of Zelda: Breath of the Wild", Genre: "Aventura", Platform: "Nintendo Switch", Year: 2017,
		Description:  "Explora libremente el vasto mundo de Hyrule.",
		ImagePath:    str("../assets/zelda.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/The_Legend_of_Zelda:_Breath_of_the_Wild")},
	{Name: "Stardew Valley", Genre: "Simulación", Platform: "PC/Consola", Year: 2016,
		Description:  "Crea tu granja y vive una vida tranquila en el campo.",
		ImagePath:    str("../assets/stardew.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Stardew_Valley")},
	{Name: "Rocket League", Genre: "Deportes", Platform: "PC/Consola", Year: 2015,
		Description:  "Combina fútbol y coches en un juego lleno de acción.",
		ImagePath:    str("../assets/rocketleague.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Rocket_League")},
	{Name: "2048", Genre: "Puzzle", Platform: "Web", Year: 2014,
		Description:  "Desliza los números hasta llegar a 2048.",
		ImagePath:    str("../assets/2048.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/2048_(videojuego)")},
	{Name: "Minecraft", Genre: "Aventura", Platform: "PC/Consola", Year: 2011,
		Description:  "Construye y sobrevive en mundos infinitos.",
		ImagePath:    str("../assets/minecraft.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Minecraft")},
	{Name: "Snake", Genre: "Clásico", Platform: "Web", Year: 1997,
		Description:  "Guía la serpiente para comer y crecer sin chocar.",
		ImagePath:    str("../assets/snake.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/La_serpiente_(videojuego)")},
	{Name: "DOOM", Genre: "Shooter", Platform: "PC", Year: 1993,
		Description:  "Enfréntate a hordas demoníacas en este clásico FPS.",
		ImagePath:    str("../assets/doom.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Doom_(videojuego_de_1993)")},
	{Name: "Tetris", Genre: "Puzzle", Platform: "Web", Year: 1984,
		Description:  "Encaja las piezas antes de llenar la pantalla.",
		ImagePath:    str("../assets/tetris.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Tetris")},
	{Name: "Pac-Man", Genre: "Clásico", Platform: "Arcade", Year: 1980,
		Description:  "Come puntos y esquiva fantasmas en el laberinto.",
		ImagePath:    str("../assets/pacman.png"),
		WikipediaURL: str("https://es.wikipedia.org/wiki/Pac-Man")},
}
