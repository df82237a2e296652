package tikz

import "sort"

// Templates are ready-made diagram snippets for common biology figures.
var Templates = map[string]string{
	"Mitochondria (Bezier)": `\begin{tikzpicture}
% Outer membrane
\draw[thick] (0,0) ellipse (4 and 2);
% Inner membrane (cristae style)
\draw[thick] (-3,0)
.. controls (-2.5,1) and (-1.5,1) .. (-1,0)
.. controls (-0.5,-1) and (0.5,-1) .. (1,0)
.. controls (1.5,1) and (2.5,1) .. (3,0);
% Labels
\node at (0,2.4) {\textbf{Outer Membrane}};
\node at (0,-2.4) {\textbf{Inner Membrane}};
\node at (0,0.8) {\textit{Matrix}};
\end{tikzpicture}`,
	"Cell Signaling": `\begin{tikzpicture}
\node[circle, draw, fill=blue!15, minimum size=2.2cm] (cell) at (0,0) {Cell};
\node[rectangle, draw, fill=green!20, minimum width=1.5cm, minimum height=0.6cm] (rec) at (0,1.8) {Receptor};
\draw[->, thick] (rec) -- (cell);
\end{tikzpicture}`,
	"Immune Synapse": `\begin{tikzpicture}
\node[circle, draw, fill=red!15, minimum size=2cm] (tcell) at (-1.8,0) {T Cell};
\node[circle, draw, fill=orange!15, minimum size=2cm] (apc) at (1.8,0) {APC};
\draw[ultra thick, <->] (-0.8,0) -- (0.8,0) node[midway, above] {Synapse};
\end{tikzpicture}`,
	"CRISPR Workflow": `\begin{tikzpicture}
\node[rectangle, draw, fill=purple!15, minimum width=2cm, minimum height=0.8cm] (gRNA) at (0,1.5) {gRNA};
\node[rectangle, draw, fill=purple!25, minimum width=2cm, minimum height=0.8cm] (cas9) at (0,0) {Cas9};
\node[rectangle, draw, fill=gray!20, minimum width=2.5cm, minimum height=0.8cm] (dna) at (0,-1.5) {Target DNA};
\draw[->, thick] (gRNA) -- (cas9);
\draw[->, thick] (cas9) -- (dna);
\end{tikzpicture}`,
}

// TemplateNames lists the available templates in sorted order.
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
