package color

// Gradient palettes from the cpt-city collection, gamma corrected for LEDs.
var gradients = []Palette{
	{"ib_jul01", []Stop{
		{0, RGB{194, 1, 1}},
		{94, RGB{1, 29, 18}},
		{132, RGB{57, 131, 28}},
		{255, RGB{113, 1, 1}},
	}},
	{"es_vintage_57", []Stop{
		{0, RGB{2, 1, 1}},
		{53, RGB{18, 1, 0}},
		{104, RGB{69, 29, 1}},
		{153, RGB{167, 135, 10}},
		{255, RGB{46, 56, 4}},
	}},
	{"es_vintage_01", []Stop{
		{0, RGB{4, 1, 1}},
		{51, RGB{16, 0, 1}},
		{76, RGB{97, 104, 3}},
		{101, RGB{255, 131, 19}},
		{127, RGB{67, 9, 4}},
		{153, RGB{16, 0, 1}},
		{229, RGB{4, 1, 1}},
		{255, RGB{4, 1, 1}},
	}},
	{"es_rivendell_15", []Stop{
		{0, RGB{1, 14, 5}},
		{101, RGB{16, 36, 14}},
		{165, RGB{56, 68, 30}},
		{242, RGB{150, 156, 99}},
		{255, RGB{150, 156, 99}},
	}},
	{"rgi_15", []Stop{
		{0, RGB{4, 1, 31}},
		{31, RGB{55, 1, 16}},
		{63, RGB{197, 3, 7}},
		{95, RGB{59, 2, 17}},
		{127, RGB{6, 2, 34}},
		{159, RGB{39, 6, 33}},
		{191, RGB{112, 13, 32}},
		{223, RGB{56, 9, 35}},
		{255, RGB{22, 6, 38}},
	}},
	{"retro2_16", []Stop{
		{0, RGB{188, 135, 1}},
		{255, RGB{46, 7, 1}},
	}},
	{"Analogous_1", []Stop{
		{0, RGB{3, 0, 255}},
		{63, RGB{23, 0, 255}},
		{127, RGB{67, 0, 255}},
		{191, RGB{142, 0, 45}},
		{255, RGB{255, 0, 0}},
	}},
	{"es_pinksplash_08", []Stop{
		{0, RGB{126, 11, 255}},
		{127, RGB{197, 1, 22}},
		{175, RGB{210, 157, 172}},
		{221, RGB{157, 3, 112}},
		{255, RGB{157, 3, 112}},
	}},
	{"es_pinksplash_07", []Stop{
		{0, RGB{229, 1, 1}},
		{61, RGB{242, 4, 63}},
		{101, RGB{255, 12, 255}},
		{127, RGB{249, 81, 252}},
		{153, RGB{255, 11, 235}},
		{193, RGB{244, 5, 68}},
		{255, RGB{232, 1, 5}},
	}},
	{"Coral_reef", []Stop{
		{0, RGB{40, 199, 197}},
		{50, RGB{10, 152, 155}},
		{96, RGB{1, 111, 120}},
		{96, RGB{43, 127, 162}},
		{139, RGB{10, 73, 111}},
		{255, RGB{1, 34, 71}},
	}},
	{"es_ocean_breeze_068", []Stop{
		{0, RGB{100, 156, 153}},
		{51, RGB{1, 99, 137}},
		{101, RGB{1, 68, 84}},
		{104, RGB{35, 142, 168}},
		{178, RGB{0, 63, 117}},
		{255, RGB{1, 10, 10}},
	}},
	{"es_ocean_breeze_036", []Stop{
		{0, RGB{1, 6, 7}},
		{89, RGB{1, 99, 111}},
		{153, RGB{144, 209, 255}},
		{255, RGB{0, 73, 82}},
	}},
	{"departure", []Stop{
		{0, RGB{8, 3, 0}},
		{42, RGB{23, 7, 0}},
		{63, RGB{75, 38, 6}},
		{84, RGB{169, 99, 38}},
		{106, RGB{213, 169, 119}},
		{116, RGB{255, 255, 255}},
		{138, RGB{135, 255, 138}},
		{148, RGB{22, 255, 24}},
		{170, RGB{0, 255, 0}},
		{191, RGB{0, 136, 0}},
		{212, RGB{0, 55, 0}},
		{255, RGB{0, 55, 0}},
	}},
	{"es_landscape_64", []Stop{
		{0, RGB{0, 0, 0}},
		{37, RGB{2, 25, 1}},
		{76, RGB{15, 115, 5}},
		{127, RGB{79, 213, 1}},
		{128, RGB{126, 211, 47}},
		{130, RGB{188, 209, 247}},
		{153, RGB{144, 182, 205}},
		{204, RGB{59, 117, 250}},
		{255, RGB{1, 37, 192}},
	}},
	{"es_landscape_33", []Stop{
		{0, RGB{1, 5, 0}},
		{19, RGB{32, 23, 1}},
		{38, RGB{161, 55, 1}},
		{63, RGB{229, 144, 1}},
		{66, RGB{39, 142, 74}},
		{255, RGB{1, 4, 1}},
	}},
	{"rainbowsherbet", []Stop{
		{0, RGB{255, 33, 4}},
		{43, RGB{255, 68, 25}},
		{86, RGB{255, 7, 25}},
		{127, RGB{255, 82, 103}},
		{170, RGB{255, 255, 242}},
		{209, RGB{42, 255, 22}},
		{255, RGB{87, 255, 65}},
	}},
	{"gr65_hult", []Stop{
		{0, RGB{247, 176, 247}},
		{48, RGB{255, 136, 255}},
		{89, RGB{220, 29, 226}},
		{160, RGB{7, 82, 178}},
		{216, RGB{1, 124, 109}},
		{255, RGB{1, 124, 109}},
	}},
	{"gr64_hult", []Stop{
		{0, RGB{1, 124, 109}},
		{66, RGB{1, 93, 79}},
		{104, RGB{52, 65, 1}},
		{130, RGB{115, 127, 1}},
		{150, RGB{52, 65, 1}},
		{201, RGB{1, 86, 72}},
		{239, RGB{0, 55, 45}},
		{255, RGB{0, 55, 45}},
	}},
	{"GMT_drywet", []Stop{
		{0, RGB{47, 30, 2}},
		{42, RGB{213, 147, 24}},
		{84, RGB{103, 219, 52}},
		{127, RGB{3, 219, 207}},
		{170, RGB{1, 48, 214}},
		{212, RGB{1, 1, 111}},
		{255, RGB{1, 7, 33}},
	}},
	{"ib15", []Stop{
		{0, RGB{113, 91, 147}},
		{72, RGB{157, 88, 78}},
		{89, RGB{208, 85, 33}},
		{107, RGB{255, 29, 11}},
		{141, RGB{137, 31, 39}},
		{255, RGB{59, 33, 89}},
	}},
	{"Fuschia_7", []Stop{
		{0, RGB{43, 3, 153}},
		{63, RGB{100, 4, 103}},
		{127, RGB{188, 5, 66}},
		{191, RGB{161, 11, 115}},
		{255, RGB{135, 20, 182}},
	}},
	{"es_emerald_dragon_08", []Stop{
		{0, RGB{97, 255, 1}},
		{101, RGB{47, 133, 1}},
		{178, RGB{13, 43, 1}},
		{255, RGB{2, 10, 1}},
	}},
	{"lava", []Stop{
		{0, RGB{0, 0, 0}},
		{46, RGB{18, 0, 0}},
		{96, RGB{113, 0, 0}},
		{108, RGB{142, 3, 1}},
		{119, RGB{175, 17, 1}},
		{146, RGB{213, 44, 2}},
		{174, RGB{255, 82, 4}},
		{188, RGB{255, 115, 4}},
		{202, RGB{255, 156, 4}},
		{218, RGB{255, 203, 4}},
		{234, RGB{255, 255, 4}},
		{244, RGB{255, 255, 71}},
		{255, RGB{255, 255, 255}},
	}},
	{"fire", []Stop{
		{0, RGB{1, 1, 0}},
		{76, RGB{32, 5, 0}},
		{146, RGB{192, 24, 0}},
		{197, RGB{220, 105, 5}},
		{240, RGB{252, 255, 31}},
		{250, RGB{252, 255, 111}},
		{255, RGB{255, 255, 255}},
	}},
	{"Colorfull", []Stop{
		{0, RGB{10, 85, 5}},
		{25, RGB{29, 109, 18}},
		{60, RGB{59, 138, 42}},
		{93, RGB{83, 99, 52}},
		{106, RGB{110, 66, 64}},
		{109, RGB{123, 49, 65}},
		{113, RGB{139, 35, 66}},
		{116, RGB{192, 117, 98}},
		{124, RGB{255, 255, 137}},
		{168, RGB{100, 180, 155}},
		{255, RGB{22, 121, 174}},
	}},
	{"Magenta_Evening", []Stop{
		{0, RGB{71, 27, 39}},
		{31, RGB{130, 11, 51}},
		{63, RGB{213, 2, 64}},
		{70, RGB{232, 1, 66}},
		{76, RGB{252, 1, 69}},
		{108, RGB{123, 2, 51}},
		{255, RGB{46, 9, 35}},
	}},
	{"Pink_Purple", []Stop{
		{0, RGB{19, 2, 39}},
		{25, RGB{26, 4, 45}},
		{51, RGB{33, 6, 52}},
		{76, RGB{68, 62, 125}},
		{102, RGB{118, 187, 240}},
		{109, RGB{163, 215, 247}},
		{114, RGB{217, 244, 255}},
		{122, RGB{159, 149, 221}},
		{149, RGB{113, 78, 188}},
		{183, RGB{128, 57, 155}},
		{255, RGB{146, 40, 123}},
	}},
	{"Sunset_Real", []Stop{
		{0, RGB{120, 0, 0}},
		{22, RGB{179, 22, 0}},
		{51, RGB{255, 104, 0}},
		{85, RGB{167, 22, 18}},
		{135, RGB{100, 0, 103}},
		{198, RGB{16, 0, 130}},
		{255, RGB{0, 0, 160}},
	}},
	{"es_autumn_19", []Stop{
		{0, RGB{26, 1, 1}},
		{51, RGB{67, 4, 1}},
		{84, RGB{118, 14, 1}},
		{104, RGB{137, 152, 52}},
		{112, RGB{113, 65, 1}},
		{122, RGB{133, 149, 59}},
		{124, RGB{137, 152, 52}},
		{135, RGB{113, 65, 1}},
		{142, RGB{139, 154, 46}},
		{163, RGB{113, 13, 1}},
		{204, RGB{55, 3, 1}},
		{249, RGB{17, 1, 1}},
		{255, RGB{17, 1, 1}},
	}},
	{"BlacK_Blue_Magenta_White", []Stop{
		{0, RGB{0, 0, 0}},
		{42, RGB{0, 0, 45}},
		{84, RGB{0, 0, 255}},
		{127, RGB{42, 0, 255}},
		{170, RGB{255, 0, 255}},
		{212, RGB{255, 55, 255}},
		{255, RGB{255, 255, 255}},
	}},
	{"BlacK_Magenta_Red", []Stop{
		{0, RGB{0, 0, 0}},
		{63, RGB{42, 0, 45}},
		{127, RGB{255, 0, 255}},
		{191, RGB{255, 0, 45}},
		{255, RGB{255, 0, 0}},
	}},
	{"BlacK_Red_Magenta_Yellow", []Stop{
		{0, RGB{0, 0, 0}},
		{42, RGB{42, 0, 0}},
		{84, RGB{255, 0, 0}},
		{127, RGB{255, 0, 45}},
		{170, RGB{255, 0, 255}},
		{212, RGB{255, 55, 45}},
		{255, RGB{255, 255, 0}},
	}},
}
