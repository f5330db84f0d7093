package listeners

import _ "embed"

// paginaKiosco es la página de pantalla completa que corre en los kioscos de
// planta. Va embebida en el binario para no depender de archivos en disco.
//
//go:embed kiosco.html
var paginaKiosco []byte
