package testutil

// The fixture years model a small slice of both catalogs with every kind
// of change: ICD 2023 -> 2024 has A00.0 and J09 changed, A00.9 deprecated,
// A01 redirected to the new A02, and U99.0 new. OPS 2023 -> 2024 has 1-202
// and 5-378.b8 changed, 1-202.1 redirected to the new 1-202.2, and
// 8-98f.20 new.

const ICDChapters = `01;Bestimmte infektiöse und parasitäre Krankheiten
10;Krankheiten des Atmungssystems
22;Schlüsselnummern für besondere Zwecke
`

const ICDGroups = `A00;A09;01;Infektiöse Darmkrankheiten
B00;B10;01;Virusinfektionen der Haut und Schleimhäute
J09;J18;10;Grippe und Pneumonie
U99;U99;22;Spezielle Verfahren
`

const ICDCodes2023 = `3;N;X;01;A00;A00;A00.-;A00;Cholera;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
4;T;X;01;A00;A00.0;A00.0;A000;Cholera durch Vibrio cholerae;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
4;T;X;01;A00;A00.1;A00.1;A001;Cholera durch Vibrio cholerae O:1, Biovar eltor;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
4;T;X;01;A00;A00.9;A00.9;A009;Cholera, nicht näher bezeichnet;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
3;T;X;01;A00;A01;A01.-;A01;Typhus und Paratyphus;P;P;002;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;J;J
3;T;X;01;B00;B10;B10.-;B10;Sonstige humane Herpesviren;P;P;UNDEF;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;N;N
3;T;X;10;J09;J09;J09.-;J09;Grippe durch zoonotische Influenzaviren;P;P;UNDEF;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;J;J
broken;line
`

const ICDCodes2024 = `3;N;X;01;A00;A00;A00.-;A00;Cholera;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
4;T;X;01;A00;A00.0;A00.0;A000;Cholera durch Vibrio cholerae O:1, Biovar cholerae;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
4;T;X;01;A00;A00.1;A00.1;A001;Cholera durch Vibrio cholerae O:1, Biovar eltor;P;P;001;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;J;J;J;J
3;T;X;01;A00;A02;A02.-;A02;Typhus abdominalis;P;P;002;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;J;J
3;T;X;01;B00;B10;B10.-;B10;Sonstige humane Herpesviren;P;P;UNDEF;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;N;N
3;T;X;10;J09;J09;J09.-;J09;Grippe durch zoonotische Influenzaviren;P;P;UNDEF;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;j099;K;N;J;J;J
4;T;X;22;U99;U99.0;U99.0;U990;Spezielle Verfahren zur Untersuchung auf SARS-CoV-2;P;P;UNDEF;UNDEF;UNDEF;UNDEF;UNDEF;9;9;9999;9999;9;N;J;N;N
`

const ICDMigration = `A00;A00;A;A
A00.0;A00.0;A;A
A00.1;A00.1;A;A
A00.9;UNDEF;N;N
A01;A02;A;N
B10;B10;A;A
J09;J09;A;A
`

const OPSChapters = `1;Diagnostische Maßnahmen
5;Operationen
8;Nichtoperative therapeutische Maßnahmen
`

const OPSGroups = `1;1-20;1-33;Untersuchung einzelner Körpersysteme
5;5-35;5-37;Operationen an Klappen und Septen des Herzens
8;8-97;8-98;Komplexbehandlung
`

const OPSThreeDigits = `1;1-20;1-20;Neurologische Untersuchungen
5;5-35;5-37;Rhythmuschirurgie und andere Operationen an Herz und Perikard
8;8-97;8-97...8-98;Multimodale Komplexbehandlung
`

const OPSCodes2023 = `3;N;N;1;1-20;1-20;1-202;1202;Diagnostik zur Feststellung des Hirntodes;N;N;N;J
4;T;N;1;1-20;1-20;1-202.0;12020;Bei einem potenziellen Organspender;N;N;N;J
4;T;N;1;1-20;1-20;1-202.1;12021;Bei einem anderen Patienten;N;N;N;J
4;N;N;5;5-35;5-37;5-378.b;5378b;Aggregat- und Sondenentfernung;N;N;N;J
5;T;N;5;5-35;5-37;5-378.b8;5378b8;Defibrillator mit Zweikammer-Stimulation;N;N;N;J
4;T;Z;8;8-97;8-98;8-98f.10;898f10;Aufwendige intensivmedizinische Komplexbehandlung: 185 bis 276 Aufwandspunkte;N;N;J;J
1;2;3
`

const OPSCodes2024 = `3;N;N;1;1-20;1-20;1-202;1202;Diagnostik zur Feststellung des irreversiblen Hirnfunktionsausfalls;N;N;N;J
4;T;N;1;1-20;1-20;1-202.0;12020;Bei einem potenziellen Organspender;N;N;N;J
4;T;N;1;1-20;1-20;1-202.2;12022;Bei einem anderen Patienten mit Ergänzungsuntersuchung;N;N;N;J
4;N;N;5;5-35;5-37;5-378.b;5378b;Aggregat- und Sondenentfernung;N;N;N;J
5;T;N;5;5-35;5-37;5-378.b8;5378b8;Defibrillator mit Zweikammer-Stimulation;J;N;N;J
4;T;Z;8;8-97;8-98;8-98f.10;898f10;Aufwendige intensivmedizinische Komplexbehandlung: 185 bis 276 Aufwandspunkte;N;N;J;J
4;T;Z;8;8-97;8-98;8-98f.20;898f20;Aufwendige intensivmedizinische Komplexbehandlung: 277 bis 552 Aufwandspunkte;N;N;J;J
`

const OPSMigration = `1-202;N;1-202;N;A;A
1-202.0;N;1-202.0;N;A;A
1-202.1;N;1-202.2;N;A;A
5-378.b8;N;5-378.b8;N;A;A
8-98f.10;N;8-98f.10;N;A;A
`

// ICD2023 returns the ICD 2023 fixture files keyed by kind
func ICD2023() map[string]string {
	return map[string]string{"codes": ICDCodes2023, "groups": ICDGroups, "chapters": ICDChapters}
}

// ICD2024 returns the ICD 2024 fixture files keyed by kind
func ICD2024() map[string]string {
	return map[string]string{"codes": ICDCodes2024, "groups": ICDGroups, "chapters": ICDChapters}
}

// OPS2023 returns the OPS 2023 fixture files keyed by kind
func OPS2023() map[string]string {
	return map[string]string{"codes": OPSCodes2023, "groups": OPSGroups, "chapters": OPSChapters, "threedigit": OPSThreeDigits}
}

// OPS2024 returns the OPS 2024 fixture files keyed by kind
func OPS2024() map[string]string {
	return map[string]string{"codes": OPSCodes2024, "groups": OPSGroups, "chapters": OPSChapters, "threedigit": OPSThreeDigits}
}
